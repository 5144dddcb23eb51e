package agreement

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/curve25519"

	"github.com/remoteprov/rkp-go/pkg/cose"
	"github.com/remoteprov/rkp-go/pkg/rkperr"
)

// SharedSecretSize is the size of the raw X25519 shared secret in bytes.
const SharedSecretSize = curve25519.PointSize

// PublicKey is an X25519 public key (u-coordinate, RFC 7748).
type PublicKey [curve25519.PointSize]byte

// String returns the key as hex.
func (p PublicKey) String() string {
	return hex.EncodeToString(p[:])
}

// COSEKey returns the key object for p (kty OKP, crv X25519,
// alg ECDH-ES+HKDF-256).
func (p PublicKey) COSEKey() (*cose.Key, error) {
	return cose.EncodeX25519Public(p)
}

// KeyPair holds an X25519 key pair. Private is the clamped scalar and must
// not leave the process; call Wipe when done with it.
type KeyPair struct {
	Private [curve25519.ScalarSize]byte
	Public  PublicKey
}

// GenerateKeyPair returns a fresh X25519 key pair from crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	return generateKeyPair(rand.Reader)
}

func generateKeyPair(r io.Reader) (*KeyPair, error) {
	var kp KeyPair
	if _, err := io.ReadFull(r, kp.Private[:]); err != nil {
		return nil, fmt.Errorf("failed to read key material: %w", err)
	}
	// Clamp private key per RFC 7748
	kp.Private[0] &= 248
	kp.Private[31] &= 127
	kp.Private[31] |= 64

	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		kp.Wipe()
		return nil, rkperr.Crypto(rkperr.MalformedKey, "generate", err)
	}
	copy(kp.Public[:], pub)
	return &kp, nil
}

// Wipe zeroes the private scalar.
func (kp *KeyPair) Wipe() {
	wipe(kp.Private[:])
}

// SharedSecret computes the raw X25519 Diffie-Hellman output between a
// private scalar and a peer public key. A peer key of small order, which
// would produce the all-zero output, is rejected as MalformedKey.
func SharedSecret(private [curve25519.ScalarSize]byte, peer PublicKey) ([]byte, error) {
	secret, err := curve25519.X25519(private[:], peer[:])
	if err != nil {
		return nil, rkperr.Crypto(rkperr.MalformedKey, "ecdh", err)
	}
	return secret, nil
}

// PublicKeyFromBytes converts a raw 32-byte X25519 public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	pub, err := cose.X25519PublicFromBytes(b)
	return PublicKey(pub), err
}

// wipe zeroes b. It is kept out of line so the writes are not elided.
//
//go:noinline
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}
