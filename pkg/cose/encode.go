package cose

import (
	"crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"fmt"
	"math/big"

	_ "crypto/sha256" // registers crypto.SHA256

	"filippo.io/edwards25519"

	"github.com/remoteprov/rkp-go/pkg/rkperr"
)

// Raw public key sizes in bytes.
const (
	X25519KeySize      = 32
	Ed25519KeySize     = ed25519.PublicKeySize
	P256CoordinateSize = 32
)

// PublicKeyDigest returns the SHA-256 digest of a raw encoded public key,
// used as the key identifier. The only failure is an unavailable digest
// implementation.
func PublicKeyDigest(pub []byte) ([]byte, error) {
	if !crypto.SHA256.Available() {
		return nil, rkperr.Crypto(rkperr.NoSuchAlgorithm, "digest", fmt.Errorf("SHA-256 not linked"))
	}
	h := crypto.SHA256.New()
	h.Write(pub)
	return h.Sum(nil), nil
}

// EncodeX25519Public builds the key object for an X25519 agreement key:
// kty OKP, crv X25519, alg ECDH-ES+HKDF-256, kid SHA-256(pub), x pub.
func EncodeX25519Public(pub [X25519KeySize]byte) (*Key, error) {
	kid, err := PublicKeyDigest(pub[:])
	if err != nil {
		return nil, err
	}
	return &Key{
		Type:      KeyTypeOKP,
		ID:        kid,
		Algorithm: AlgorithmECDHESHKDF256,
		Curve:     CurveX25519,
		X:         append([]byte(nil), pub[:]...),
	}, nil
}

// EncodeEd25519Public builds the key object for an Ed25519 signing key:
// kty OKP, crv Ed25519, alg EdDSA, kid SHA-256(pub), x pub.
func EncodeEd25519Public(pub ed25519.PublicKey) (*Key, error) {
	if len(pub) != Ed25519KeySize {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "encode",
			fmt.Errorf("Ed25519 public key is %d bytes, want %d", len(pub), Ed25519KeySize))
	}
	kid, err := PublicKeyDigest(pub)
	if err != nil {
		return nil, err
	}
	return &Key{
		Type:      KeyTypeOKP,
		ID:        kid,
		Algorithm: AlgorithmEdDSA,
		Curve:     CurveEd25519,
		X:         append([]byte(nil), pub...),
	}, nil
}

// EncodeP256Public builds the key object for a P-256 ECDSA verification key
// with 32-byte big-endian coordinates.
func EncodeP256Public(pub *ecdsa.PublicKey) (*Key, error) {
	if pub == nil || pub.Curve != elliptic.P256() {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "encode", fmt.Errorf("not a P-256 public key"))
	}
	ek, err := pub.ECDH()
	if err != nil {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "encode", err)
	}
	// Uncompressed SEC 1 point: 0x04 || X || Y
	point := ek.Bytes()
	return &Key{
		Type:      KeyTypeEC2,
		Algorithm: AlgorithmES256,
		Curve:     CurveP256,
		X:         point[1 : 1+P256CoordinateSize],
		Y:         point[1+P256CoordinateSize:],
	}, nil
}

// DecodeP256Public validates that key is an EC2 / ES256 / P-256 key and
// reconstructs the public point. Each of kty, alg and crv is checked on its
// own and reported with the expected and actual value. Coordinates that do
// not describe a point on P-256 are a MalformedKey error.
func DecodeP256Public(key *Key) (*ecdsa.PublicKey, error) {
	if key.Type != KeyTypeEC2 {
		return nil, rkperr.WrongKey("kty", int64(KeyTypeEC2), int64(key.Type))
	}
	if key.Algorithm != AlgorithmES256 {
		return nil, rkperr.WrongKey("alg", int64(AlgorithmES256), int64(key.Algorithm))
	}
	if key.Curve != CurveP256 {
		return nil, rkperr.WrongKey("crv", int64(CurveP256), int64(key.Curve))
	}
	if len(key.X) == 0 || len(key.X) > P256CoordinateSize || len(key.Y) == 0 || len(key.Y) > P256CoordinateSize {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "decode",
			fmt.Errorf("P-256 coordinates must be 1..%d bytes", P256CoordinateSize))
	}

	point := make([]byte, 1+2*P256CoordinateSize)
	point[0] = 0x04
	copy(point[1+P256CoordinateSize-len(key.X):1+P256CoordinateSize], key.X)
	copy(point[1+2*P256CoordinateSize-len(key.Y):], key.Y)
	if _, err := ecdh.P256().NewPublicKey(point); err != nil {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "decode", err)
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(key.X),
		Y:     new(big.Int).SetBytes(key.Y),
	}, nil
}

// X25519PublicFromBytes converts a raw 32-byte u-coordinate into an X25519
// public key.
func X25519PublicFromBytes(b []byte) ([X25519KeySize]byte, error) {
	var pub [X25519KeySize]byte
	if len(b) != X25519KeySize {
		return pub, rkperr.Crypto(rkperr.MalformedKey, "decode",
			fmt.Errorf("X25519 public key is %d bytes, want %d", len(b), X25519KeySize))
	}
	copy(pub[:], b)
	return pub, nil
}

// Ed25519PublicFromBytes converts the x parameter of an Ed25519 key object
// into a verification key. The bytes must be a valid compressed Edwards
// point.
func Ed25519PublicFromBytes(x []byte) (ed25519.PublicKey, error) {
	if len(x) != Ed25519KeySize {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "decode",
			fmt.Errorf("Ed25519 public key is %d bytes, want %d", len(x), Ed25519KeySize))
	}
	if _, err := new(edwards25519.Point).SetBytes(x); err != nil {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "decode", err)
	}
	return ed25519.PublicKey(append([]byte(nil), x...)), nil
}
