package cert

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/remoteprov/rkp-go/pkg/cose"
	"github.com/remoteprov/rkp-go/pkg/log"
)

// SignatureAlgorithm signs and verifies COSE_Sign1 bodies for one COSE
// algorithm identifier.
type SignatureAlgorithm interface {
	// ID is the value placed in the protected alg header.
	ID() cose.Algorithm

	// Sign signs msg (the encoded Sig_structure) with signer.
	Sign(rand io.Reader, signer crypto.Signer, msg []byte) ([]byte, error)

	// Verify checks sig over msg with the public key in key. It returns
	// false with a nil error for a well-formed but wrong signature, and an
	// error when key cannot be used with this algorithm.
	Verify(key *cose.Key, msg, sig []byte) (bool, error)
}

// EdDSA is the Ed25519 SignatureAlgorithm.
type EdDSA struct{}

// ID returns cose.AlgorithmEdDSA.
func (EdDSA) ID() cose.Algorithm { return cose.AlgorithmEdDSA }

// Sign signs msg with an Ed25519 signer. Ed25519 signs the message itself,
// so no digest is computed first.
func (EdDSA) Sign(rand io.Reader, signer crypto.Signer, msg []byte) ([]byte, error) {
	if _, ok := signer.Public().(ed25519.PublicKey); !ok {
		return nil, fmt.Errorf("signer holds %T, want ed25519.PublicKey", signer.Public())
	}
	sig, err := signer.Sign(rand, msg, crypto.Hash(0))
	if err != nil {
		return nil, err
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("signature is %d bytes, want %d", len(sig), ed25519.SignatureSize)
	}
	return sig, nil
}

// Verify checks an Ed25519 signature. key must be an OKP Ed25519 key; an
// alg label, if present, must be EdDSA.
func (EdDSA) Verify(key *cose.Key, msg, sig []byte) (bool, error) {
	alg := key.Algorithm
	if alg == 0 {
		alg = cose.AlgorithmEdDSA
	}
	k := *key
	k.Algorithm = alg
	if err := k.RequireOKP(cose.CurveEd25519, cose.AlgorithmEdDSA); err != nil {
		return false, err
	}
	pub, err := cose.Ed25519PublicFromBytes(key.X)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(pub, msg, sig), nil
}

// SuiteConfig configures a Suite.
type SuiteConfig struct {
	// Algorithm signs and verifies certificates. Default: EdDSA.
	Algorithm SignatureAlgorithm

	// Logger receives sign, verify and extract events.
	// If nil, logging is disabled.
	Logger log.Logger

	// Rand is passed to the signer. Default: crypto/rand.Reader.
	Rand io.Reader
}

// Suite is the set of signature capabilities used to issue and check
// certificates. It is built once and passed to whatever needs it; there is
// no process-wide algorithm registry. A Suite is immutable and safe for
// concurrent use.
type Suite struct {
	alg    SignatureAlgorithm
	logger log.Logger
	rand   io.Reader
}

// NewSuite creates a Suite from config, filling in defaults.
func NewSuite(config SuiteConfig) *Suite {
	s := &Suite{
		alg:    config.Algorithm,
		logger: config.Logger,
		rand:   config.Rand,
	}
	if s.alg == nil {
		s.alg = EdDSA{}
	}
	if s.logger == nil {
		s.logger = log.NoopLogger{}
	}
	if s.rand == nil {
		s.rand = rand.Reader
	}
	return s
}

// DefaultSuite returns an EdDSA suite without logging.
func DefaultSuite() *Suite {
	return NewSuite(SuiteConfig{})
}

// Algorithm returns the suite's signature algorithm identifier.
func (s *Suite) Algorithm() cose.Algorithm {
	return s.alg.ID()
}

// Logger returns the suite's event logger, never nil.
func (s *Suite) Logger() log.Logger {
	return s.logger
}
