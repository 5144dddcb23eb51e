package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/remoteprov/rkp-go/pkg/rkperr"
)

// Sizes for AES-GCM as used by the provisioning protocol.
const (
	// IVSize is the required nonce length.
	IVSize = 12

	// TagSize is the authentication tag appended to each ciphertext.
	TagSize = 16
)

// Encrypt seals plaintext under key with AES-GCM and returns
// ciphertext||tag. The key must be 16, 24 or 32 bytes; iv must be IVSize
// bytes and must never repeat for the same key.
func Encrypt(plaintext, aad, key, iv []byte) ([]byte, error) {
	gcm, err := newGCM(key, iv)
	if err != nil {
		return nil, rkperr.Crypto(rkperr.EncryptionFailure, "encrypt", err)
	}
	return gcm.Seal(nil, iv, plaintext, aad), nil
}

// Decrypt opens ciphertext||tag produced by Encrypt. Any mismatch in key,
// iv, aad or data returns a DecryptionFailure carrying no further detail.
func Decrypt(ciphertext, aad, key, iv []byte) ([]byte, error) {
	gcm, err := newGCM(key, iv)
	if err != nil {
		return nil, rkperr.Crypto(rkperr.DecryptionFailure, "decrypt", nil)
	}
	if len(ciphertext) < TagSize {
		return nil, rkperr.Crypto(rkperr.DecryptionFailure, "decrypt", nil)
	}
	plaintext, err := gcm.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, rkperr.Crypto(rkperr.DecryptionFailure, "decrypt", nil)
	}
	return plaintext, nil
}

func newGCM(key, iv []byte) (cipher.AEAD, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("invalid key length %d", len(key))
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("invalid iv length %d", len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
