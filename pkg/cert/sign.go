package cert

import (
	"crypto"
	"fmt"

	"github.com/remoteprov/rkp-go/pkg/agreement"
	"github.com/remoteprov/rkp-go/pkg/cose"
	"github.com/remoteprov/rkp-go/pkg/log"
	"github.com/remoteprov/rkp-go/pkg/rkperr"
)

// SignX25519Key certifies an X25519 agreement key: the payload is the key
// object for pub (OKP, X25519, ECDH-ES+HKDF-256).
func (s *Suite) SignX25519Key(signer crypto.Signer, pub agreement.PublicKey) (*cose.Sign1, error) {
	key, err := pub.COSEKey()
	if err != nil {
		return nil, rkperr.Crypto(rkperr.SigningFailure, "sign", err)
	}
	return s.SignKey(signer, key)
}

// SignKey certifies an already-built key object. The protected header holds
// only the suite's algorithm and the signature covers the COSE
// Sig_structure over the encoded key.
func (s *Suite) SignKey(signer crypto.Signer, key *cose.Key) (*cose.Sign1, error) {
	var pub []byte
	if key != nil {
		pub = key.X
	}
	msg, err := s.signKey(signer, key)
	if err != nil {
		s.logger.Log(log.NewEvent(log.OpSign, log.OutcomeError).WithKey(pub).WithError(err))
		return nil, err
	}
	s.logger.Log(log.NewEvent(log.OpSign, log.OutcomeSuccess).WithKey(pub))
	return msg, nil
}

func (s *Suite) signKey(signer crypto.Signer, key *cose.Key) (*cose.Sign1, error) {
	if signer == nil {
		return nil, rkperr.Crypto(rkperr.SigningFailure, "sign", fmt.Errorf("no signing key"))
	}
	if key == nil {
		return nil, rkperr.Crypto(rkperr.SigningFailure, "sign", fmt.Errorf("no key to certify"))
	}
	payload, err := key.Marshal()
	if err != nil {
		return nil, rkperr.Crypto(rkperr.SigningFailure, "sign", err)
	}
	msg, err := cose.NewSign1(s.alg.ID(), payload)
	if err != nil {
		return nil, rkperr.Crypto(rkperr.SigningFailure, "sign", err)
	}
	tbs, err := msg.SigStructure()
	if err != nil {
		return nil, rkperr.Crypto(rkperr.SigningFailure, "sign", err)
	}
	sig, err := s.alg.Sign(s.rand, signer, tbs)
	if err != nil {
		return nil, rkperr.Crypto(rkperr.SigningFailure, "sign", err)
	}
	msg.Signature = sig
	return msg, nil
}
