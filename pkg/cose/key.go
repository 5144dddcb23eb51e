package cose

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/remoteprov/rkp-go/pkg/rkperr"
	"github.com/remoteprov/rkp-go/pkg/wire"
)

// Key is a COSE_Key holding public key material only. There is
// deliberately no field for a private component: key objects are what gets
// certified and sent to the other party.
type Key struct {
	// Type is the key type (kty). Always present.
	Type KeyType

	// ID is the key identifier (kid), the SHA-256 digest of the raw public
	// key for keys built by this package. Optional.
	ID []byte

	// Algorithm is the algorithm the key is restricted to (alg), 0 if absent.
	Algorithm Algorithm

	// Curve is the curve identifier (crv), 0 if absent.
	Curve Curve

	// X is the OKP public key or the EC2 x-coordinate.
	X []byte

	// Y is the EC2 y-coordinate. Nil for OKP keys.
	Y []byte
}

// Marshal encodes the key as a deterministic CBOR map with integer labels.
// Absent optional fields are omitted.
func (k *Key) Marshal() ([]byte, error) {
	m := map[int]any{
		LabelKeyType: int64(k.Type),
	}
	if len(k.ID) > 0 {
		m[LabelKeyID] = k.ID
	}
	if k.Algorithm != 0 {
		m[LabelAlgorithm] = int64(k.Algorithm)
	}
	if k.Curve != 0 {
		m[LabelCurve] = int64(k.Curve)
	}
	if k.X != nil {
		m[LabelX] = k.X
	}
	if k.Y != nil {
		m[LabelY] = k.Y
	}
	data, err := wire.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode COSE_Key: %w", err)
	}
	return data, nil
}

// DecodeKey decodes a COSE_Key from CBOR, enforcing the CBOR type of every
// known label: kty, alg and crv must be integers, kid, x and y byte strings.
// kty is required. Unknown labels, including text-string labels, are
// ignored.
func DecodeKey(data []byte) (*Key, error) {
	if k := wire.KindOf(data); k != wire.KindMap {
		return nil, rkperr.Mismatch("COSE_Key", wire.KindMap, k)
	}
	var raw map[any]cbor.RawMessage
	if err := wire.Unmarshal(data, &raw); err != nil {
		return nil, rkperr.Decode(fmt.Errorf("COSE_Key: %w", err))
	}
	return keyFromMap(intLabels(raw))
}

// intLabels keeps the entries of m whose label is a CBOR integer.
func intLabels(m map[any]cbor.RawMessage) map[int64]cbor.RawMessage {
	out := make(map[int64]cbor.RawMessage, len(m))
	for label, v := range m {
		switch l := label.(type) {
		case int64:
			out[l] = v
		case uint64:
			if l <= math.MaxInt64 {
				out[int64(l)] = v
			}
		}
	}
	return out
}

func keyFromMap(m map[int64]cbor.RawMessage) (*Key, error) {
	var key Key

	kty, ok, err := intField(m, LabelKeyType, "kty")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, rkperr.Mismatch("kty", wire.KindInteger, wire.KindAbsent)
	}
	key.Type = KeyType(kty)

	if key.ID, _, err = bytesField(m, LabelKeyID, "kid"); err != nil {
		return nil, err
	}

	alg, _, err := intField(m, LabelAlgorithm, "alg")
	if err != nil {
		return nil, err
	}
	key.Algorithm = Algorithm(alg)

	crv, _, err := intField(m, LabelCurve, "crv")
	if err != nil {
		return nil, err
	}
	key.Curve = Curve(crv)

	if key.X, _, err = bytesField(m, LabelX, "x"); err != nil {
		return nil, err
	}
	if key.Y, _, err = bytesField(m, LabelY, "y"); err != nil {
		return nil, err
	}
	return &key, nil
}

// intField returns the integer at label, reporting whether it was present.
func intField(m map[int64]cbor.RawMessage, label int64, name string) (int64, bool, error) {
	raw, ok := m[label]
	if !ok {
		return 0, false, nil
	}
	if k := wire.KindOf(raw); k != wire.KindInteger {
		return 0, true, rkperr.Mismatch(name, wire.KindInteger, k)
	}
	v, err := wire.DecodeInt(raw)
	if err != nil {
		// Integers outside int64 range
		return 0, true, &rkperr.DecodeError{Reason: rkperr.Deserialization, Field: name, Err: err}
	}
	return v, true, nil
}

// bytesField returns the byte string at label, reporting whether it was present.
func bytesField(m map[int64]cbor.RawMessage, label int64, name string) ([]byte, bool, error) {
	raw, ok := m[label]
	if !ok {
		return nil, false, nil
	}
	if k := wire.KindOf(raw); k != wire.KindByteString {
		return nil, true, rkperr.Mismatch(name, wire.KindByteString, k)
	}
	v, err := wire.DecodeBytes(raw)
	if err != nil {
		return nil, true, &rkperr.DecodeError{Reason: rkperr.Deserialization, Field: name, Err: err}
	}
	return v, true, nil
}

// RequireOKP checks that the key is an OKP key for the given curve and
// algorithm, reporting the first field that disagrees. kty is checked
// first, then crv, then alg, so a caller can tell a wrong curve from a
// wrong algorithm.
func (k *Key) RequireOKP(crv Curve, alg Algorithm) error {
	if k.Type != KeyTypeOKP {
		return rkperr.WrongKey("kty", int64(KeyTypeOKP), int64(k.Type))
	}
	if k.Curve != crv {
		return rkperr.WrongKey("crv", int64(crv), int64(k.Curve))
	}
	if k.Algorithm != alg {
		return rkperr.WrongKey("alg", int64(alg), int64(k.Algorithm))
	}
	if k.X == nil {
		return rkperr.Mismatch("x", wire.KindByteString, wire.KindAbsent)
	}
	return nil
}

// String returns a short description without key material.
func (k *Key) String() string {
	return fmt.Sprintf("COSE_Key{kty=%s alg=%s crv=%s kid=%x}", k.Type, k.Algorithm, k.Curve, k.ID)
}
