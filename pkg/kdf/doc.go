// Package kdf provides the HMAC-based key derivation function shared by the
// key agreement layer.
//
// # Cryptographic Parameters
//
//   - KDF: HKDF (RFC 5869), extract-then-expand
//   - MAC: HMAC-SHA256 by default
//   - Salt: optional; absent means HashLen zero bytes
package kdf
