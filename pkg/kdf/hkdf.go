package kdf

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDF errors.
var (
	ErrInvalidSize = errors.New("invalid HKDF output size")
)

// Compute runs HKDF (RFC 5869) extract-then-expand over ikm and returns size
// bytes of output keying material.
//
// An empty salt is replaced by a block of zeros the length of the hash
// output, as RFC 5869 section 2.2 prescribes. size must be between 1 and
// 255 times the hash output length.
func Compute(h func() hash.Hash, ikm, salt, info []byte, size int) ([]byte, error) {
	hashLen := h().Size()
	if size <= 0 || size > 255*hashLen {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrInvalidSize, size, 255*hashLen)
	}
	if len(salt) == 0 {
		salt = make([]byte, hashLen)
	}

	out := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(h, ikm, salt, info), out); err != nil {
		return nil, fmt.Errorf("failed to expand key material: %w", err)
	}
	return out, nil
}

// SHA256 is Compute with HMAC-SHA-256.
func SHA256(ikm, salt, info []byte, size int) ([]byte, error) {
	return Compute(sha256.New, ikm, salt, info, size)
}
