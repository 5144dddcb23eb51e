package cert

import (
	"bytes"
	"errors"

	"github.com/remoteprov/rkp-go/pkg/cose"
	"github.com/remoteprov/rkp-go/pkg/log"
	"github.com/remoteprov/rkp-go/pkg/rkperr"
)

// Verification errors.
var (
	ErrAlgorithmMismatch = errors.New("signature algorithm mismatch")
	ErrKeyMismatch       = errors.New("certified key does not match expected key")
)

// Decode decodes a certificate (COSE_Sign1, tagged or untagged).
func Decode(data []byte) (*cose.Sign1, error) {
	return cose.DecodeSign1(data)
}

// Verify checks that certToVerify was signed by the key certified in
// verifyingCert.
//
// A signature that does not match returns false with a nil error. A decode
// failure in either certificate is a Deserialization DecodeError. If
// expected is non-nil, the key certified by certToVerify must carry the
// same x bytes; a mismatch is a VerificationFailure even when the signature
// is valid.
func (s *Suite) Verify(verifyingCert, certToVerify []byte, expected *cose.Key) (bool, error) {
	event := log.NewEvent(log.OpVerify, log.OutcomeSuccess)

	ok, certified, err := s.verify(verifyingCert, certToVerify, expected)
	switch {
	case err != nil:
		event.Outcome = log.OutcomeError
		event = event.WithError(err)
	case !ok:
		event.Outcome = log.OutcomeRejected
		event = event.WithDetail("signature mismatch")
	}
	if certified != nil {
		event = event.WithKey(certified.X)
	}
	s.logger.Log(event)
	return ok, err
}

func (s *Suite) verify(verifyingCert, certToVerify []byte, expected *cose.Key) (bool, *cose.Key, error) {
	issuer, err := Decode(verifyingCert)
	if err != nil {
		return false, nil, deserialization("verifying certificate", err)
	}
	subject, err := Decode(certToVerify)
	if err != nil {
		return false, nil, deserialization("certificate", err)
	}
	issuerKey, err := issuer.Key()
	if err != nil {
		return false, nil, deserialization("verifying certificate payload", err)
	}
	// The certified key is decoded best-effort for the event log; it is
	// only required once the signature holds and it must be compared.
	certified, keyErr := subject.Key()
	if keyErr != nil {
		certified = nil
	}

	ok, err := s.VerifyWithKey(issuerKey, subject)
	if err != nil || !ok {
		return false, certified, err
	}

	if expected != nil {
		if keyErr != nil {
			return false, nil, deserialization("certificate payload", keyErr)
		}
		if !bytes.Equal(certified.X, expected.X) {
			return false, certified, rkperr.Crypto(rkperr.VerificationFailure, "verify", ErrKeyMismatch)
		}
	}
	return true, certified, nil
}

// VerifyWithKey checks the signature on msg with key. The protected alg
// must match the suite's algorithm and key must be usable with it; either
// failing is a VerificationFailure. A wrong signature returns false, nil.
func (s *Suite) VerifyWithKey(key *cose.Key, msg *cose.Sign1) (bool, error) {
	alg, err := msg.Algorithm()
	if err != nil {
		return false, rkperr.Crypto(rkperr.VerificationFailure, "verify", err)
	}
	if alg != s.alg.ID() {
		return false, rkperr.Crypto(rkperr.VerificationFailure, "verify", ErrAlgorithmMismatch)
	}
	tbs, err := msg.SigStructure()
	if err != nil {
		return false, rkperr.Crypto(rkperr.VerificationFailure, "verify", err)
	}
	ok, err := s.alg.Verify(key, tbs, msg.Signature)
	if err != nil {
		return false, rkperr.Crypto(rkperr.VerificationFailure, "verify", err)
	}
	return ok, nil
}

func deserialization(what string, err error) error {
	return &rkperr.DecodeError{Reason: rkperr.Deserialization, Field: what, Err: err}
}
