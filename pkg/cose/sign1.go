package cose

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/remoteprov/rkp-go/pkg/rkperr"
	"github.com/remoteprov/rkp-go/pkg/wire"
)

// emptyMap is the CBOR encoding of {}.
var emptyMap = cbor.RawMessage{0xa0}

// Sign1 is a COSE_Sign1 message (RFC 9052 section 4.2):
//
//	[ protected: bstr, unprotected: map, payload: bstr, signature: bstr ]
//
// The protected header carries exactly the signature algorithm. Sign1
// values are built once by a signer and not modified afterwards.
type Sign1 struct {
	_           struct{} `cbor:",toarray"`
	Protected   []byte
	Unprotected cbor.RawMessage
	Payload     []byte
	Signature   []byte
}

// NewSign1 creates an unsigned message whose protected header names alg.
func NewSign1(alg Algorithm, payload []byte) (*Sign1, error) {
	protected, err := wire.Marshal(map[int]int64{HeaderAlgorithm: int64(alg)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode protected header: %w", err)
	}
	return &Sign1{
		Protected:   protected,
		Unprotected: emptyMap,
		Payload:     append([]byte{}, payload...),
	}, nil
}

// SigStructure returns the bytes a signature is computed over:
//
//	Sig_structure = [ "Signature1", body_protected, external_aad, payload ]
//
// with an empty external_aad.
func (s *Sign1) SigStructure() ([]byte, error) {
	return wire.Marshal([]any{"Signature1", s.Protected, []byte{}, s.Payload})
}

// Algorithm returns the algorithm from the protected header.
func (s *Sign1) Algorithm() (Algorithm, error) {
	if len(s.Protected) == 0 {
		return 0, rkperr.Mismatch("protected.alg", wire.KindInteger, wire.KindAbsent)
	}
	if k := wire.KindOf(s.Protected); k != wire.KindMap {
		return 0, rkperr.Mismatch("protected", wire.KindMap, k)
	}
	var hdr map[int64]cbor.RawMessage
	if err := wire.Unmarshal(s.Protected, &hdr); err != nil {
		return 0, rkperr.Decode(fmt.Errorf("protected header: %w", err))
	}
	alg, ok, err := intField(hdr, HeaderAlgorithm, "protected.alg")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, rkperr.Mismatch("protected.alg", wire.KindInteger, wire.KindAbsent)
	}
	// Nothing else is ever signed here, so crit or any extra parameter
	// means a header this verifier does not understand.
	if crit, ok := hdr[HeaderCritical]; ok {
		return 0, rkperr.Mismatch("protected.crit", wire.KindAbsent, wire.KindOf(crit))
	}
	if len(hdr) != 1 {
		return 0, rkperr.Mismatch("protected", "1 label", fmt.Sprintf("%d labels", len(hdr)))
	}
	return Algorithm(alg), nil
}

// Key decodes the payload as a COSE_Key.
func (s *Sign1) Key() (*Key, error) {
	return DecodeKey(s.Payload)
}

// Marshal encodes the message as a tagged COSE_Sign1.
func (s *Sign1) Marshal() ([]byte, error) {
	out := *s
	if len(out.Unprotected) == 0 {
		out.Unprotected = emptyMap
	}
	if out.Payload == nil {
		out.Payload = []byte{}
	}
	if out.Signature == nil {
		out.Signature = []byte{}
	}
	data, err := wire.MarshalTagged(TagSign1, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode COSE_Sign1: %w", err)
	}
	return data, nil
}

// DecodeSign1 decodes a COSE_Sign1 message, tagged or untagged. Any element
// of the wrong CBOR type is rejected, which also rules out a detached (nil)
// payload.
func DecodeSign1(data []byte) (*Sign1, error) {
	body, err := wire.Untag(data, TagSign1)
	if err != nil {
		return nil, rkperr.Decode(err)
	}
	if k := wire.KindOf(body); k != wire.KindArray {
		return nil, rkperr.Mismatch("COSE_Sign1", wire.KindArray, k)
	}

	var raw []cbor.RawMessage
	if err := wire.Unmarshal(body, &raw); err != nil {
		return nil, rkperr.Decode(fmt.Errorf("COSE_Sign1: %w", err))
	}
	if len(raw) != 4 {
		return nil, rkperr.Decode(fmt.Errorf("COSE_Sign1 has %d elements, want 4", len(raw)))
	}

	want := []struct {
		name string
		kind wire.Kind
	}{
		{"protected", wire.KindByteString},
		{"unprotected", wire.KindMap},
		{"payload", wire.KindByteString},
		{"signature", wire.KindByteString},
	}
	for i, w := range want {
		if k := wire.KindOf(raw[i]); k != w.kind {
			return nil, rkperr.Mismatch(w.name, w.kind, k)
		}
	}

	var msg Sign1
	if err := wire.Unmarshal(body, &msg); err != nil {
		return nil, rkperr.Decode(fmt.Errorf("COSE_Sign1: %w", err))
	}
	return &msg, nil
}
