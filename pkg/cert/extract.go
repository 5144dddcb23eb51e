package cert

import (
	"crypto/ed25519"

	"github.com/remoteprov/rkp-go/pkg/agreement"
	"github.com/remoteprov/rkp-go/pkg/cose"
	"github.com/remoteprov/rkp-go/pkg/log"
)

// ExtractX25519Public returns the X25519 agreement key certified by cert.
// The key object must be OKP with crv X25519 and alg ECDH-ES+HKDF-256.
// Each disagreement is reported as a DecodeError naming the field, so a
// wrong curve is distinguishable from a wrong algorithm or key type.
// The signature is not checked; call Verify first.
func (s *Suite) ExtractX25519Public(cert []byte) (agreement.PublicKey, error) {
	key, err := s.extract(cert, cose.CurveX25519, cose.AlgorithmECDHESHKDF256)
	if err != nil {
		return agreement.PublicKey{}, err
	}
	pub, err := agreement.PublicKeyFromBytes(key.X)
	s.logExtract(key.X, err)
	return pub, err
}

// ExtractEd25519Public returns the Ed25519 verification key certified by
// cert. The key object must be OKP with crv Ed25519 and alg EdDSA, and x
// must be a valid Edwards point.
func (s *Suite) ExtractEd25519Public(cert []byte) (ed25519.PublicKey, error) {
	key, err := s.extract(cert, cose.CurveEd25519, cose.AlgorithmEdDSA)
	if err != nil {
		return nil, err
	}
	pub, err := cose.Ed25519PublicFromBytes(key.X)
	s.logExtract(key.X, err)
	return pub, err
}

func (s *Suite) extract(cert []byte, crv cose.Curve, alg cose.Algorithm) (*cose.Key, error) {
	msg, err := Decode(cert)
	if err != nil {
		s.logExtract(nil, err)
		return nil, err
	}
	key, err := msg.Key()
	if err != nil {
		s.logExtract(nil, err)
		return nil, err
	}
	if err := key.RequireOKP(crv, alg); err != nil {
		s.logExtract(key.X, err)
		return nil, err
	}
	return key, nil
}

func (s *Suite) logExtract(pub []byte, err error) {
	if err != nil {
		s.logger.Log(log.NewEvent(log.OpExtract, log.OutcomeError).WithKey(pub).WithError(err))
		return
	}
	s.logger.Log(log.NewEvent(log.OpExtract, log.OutcomeSuccess).WithKey(pub))
}
