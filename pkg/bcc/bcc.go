package bcc

import (
	"crypto/ed25519"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/remoteprov/rkp-go/pkg/cert"
	"github.com/remoteprov/rkp-go/pkg/cose"
	"github.com/remoteprov/rkp-go/pkg/log"
	"github.com/remoteprov/rkp-go/pkg/rkperr"
	"github.com/remoteprov/rkp-go/pkg/wire"
)

// ChainLength is the only chain length accepted: a root key followed by a
// single certificate. Longer chains would need each certificate to carry
// the next verifying key, which is not supported.
const ChainLength = 2

// Validator checks boot certificate chains.
type Validator struct {
	// Suite verifies the certificate signature. Nil means cert.DefaultSuite().
	Suite *cert.Suite

	// Logger receives validation events. If nil, the suite's logger is used.
	Logger log.Logger
}

// NewValidator creates a Validator backed by suite.
func NewValidator(suite *cert.Suite) *Validator {
	return &Validator{Suite: suite}
}

// Validate checks a chain encoded as the CBOR array [root COSE_Key,
// COSE_Sign1]. It returns true when the certificate was signed by the root
// key and false when the signature does not match. Anything structurally
// wrong, including a chain of any other length, is a VerificationFailure.
func (v *Validator) Validate(chain []byte) (bool, error) {
	suite := v.Suite
	if suite == nil {
		suite = cert.DefaultSuite()
	}
	logger := v.Logger
	if logger == nil {
		logger = suite.Logger()
	}

	root, ok, err := validate(suite, chain)
	event := log.NewEvent(log.OpValidateChain, log.OutcomeSuccess)
	if root != nil {
		event = event.WithKey(root.X)
	}
	switch {
	case err != nil:
		event.Outcome = log.OutcomeError
		event = event.WithError(err)
	case !ok:
		event.Outcome = log.OutcomeRejected
		event = event.WithDetail("signature mismatch")
	}
	logger.Log(event)
	return ok, err
}

func validate(suite *cert.Suite, chain []byte) (*cose.Key, bool, error) {
	if k := wire.KindOf(chain); k != wire.KindArray {
		return nil, false, failure(fmt.Errorf("chain is %s, want array", k))
	}
	var entries []cbor.RawMessage
	if err := wire.Unmarshal(chain, &entries); err != nil {
		return nil, false, failure(err)
	}
	if len(entries) != ChainLength {
		return nil, false, failure(fmt.Errorf("chain has %d entries, want %d", len(entries), ChainLength))
	}

	root, err := cose.DecodeKey(entries[0])
	if err != nil {
		return nil, false, failure(fmt.Errorf("root key: %w", err))
	}
	leaf, err := cose.DecodeSign1(entries[1])
	if err != nil {
		return root, false, failure(fmt.Errorf("certificate: %w", err))
	}

	ok, err := suite.VerifyWithKey(root, leaf)
	if err != nil {
		return root, false, err
	}
	return root, ok, nil
}

func failure(err error) error {
	return rkperr.Crypto(rkperr.VerificationFailure, "bcc", err)
}

// Build assembles the chain a device presents at provisioning time: its
// root key object followed by a certificate over device signed by root.
func Build(suite *cert.Suite, root ed25519.PrivateKey, device ed25519.PublicKey) ([]byte, error) {
	data, err := build(suite, root, device)
	event := log.NewEvent(log.OpBuildChain, log.OutcomeSuccess).WithKey(device)
	if err != nil {
		event.Outcome = log.OutcomeError
		event = event.WithError(err)
	}
	suite.Logger().Log(event)
	return data, err
}

func build(suite *cert.Suite, root ed25519.PrivateKey, device ed25519.PublicKey) ([]byte, error) {
	if len(root) != ed25519.PrivateKeySize {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "bcc",
			fmt.Errorf("root key is %d bytes, want %d", len(root), ed25519.PrivateKeySize))
	}
	rootKey, err := cose.EncodeEd25519Public(root.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	rootData, err := rootKey.Marshal()
	if err != nil {
		return nil, err
	}

	deviceKey, err := cose.EncodeEd25519Public(device)
	if err != nil {
		return nil, err
	}
	msg, err := suite.SignKey(root, deviceKey)
	if err != nil {
		return nil, err
	}
	msgData, err := msg.Marshal()
	if err != nil {
		return nil, err
	}

	data, err := wire.Marshal([]cbor.RawMessage{rootData, msgData})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chain: %w", err)
	}
	return data, nil
}

// Root returns the root key object of an encoded chain without checking
// the signature.
func Root(chain []byte) (*cose.Key, error) {
	var entries []cbor.RawMessage
	if err := wire.Unmarshal(chain, &entries); err != nil {
		return nil, rkperr.Decode(err)
	}
	if len(entries) == 0 {
		return nil, rkperr.Decode(fmt.Errorf("empty chain"))
	}
	return cose.DecodeKey(entries[0])
}
