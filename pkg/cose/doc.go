// Package cose implements the subset of COSE (RFC 9052, RFC 9053) used to
// exchange and certify public keys during remote provisioning.
//
// # Key Objects
//
// A Key is a COSE_Key map with integer labels:
//
//	{ 1: kty, 2: kid, 3: alg, -1: crv, -2: x, -3: y }
//
// Three key profiles are produced and consumed:
//
//	X25519 agreement key:   kty OKP, crv X25519 (4),  alg ECDH-ES+HKDF-256 (-25)
//	Ed25519 signing key:    kty OKP, crv Ed25519 (6), alg EdDSA (-8)
//	P-256 verification key: kty EC2, crv P-256 (1),   alg ES256 (-7)
//
// Keys built here carry kid = SHA-256(raw public key). Only public material
// is ever encoded.
//
// # Signed Objects
//
// Sign1 is a COSE_Sign1 message (CBOR tag 18) whose protected header holds
// only the algorithm and whose payload is an encoded Key. Signing and
// verification live in package cert; this package only defines the
// structure and the Sig_structure bytes.
//
// # Strictness
//
// Decoders check the CBOR type of every label they read and report a
// rkperr.DecodeError naming the field, so a byte string where an integer
// belongs is a TypeMismatch, and a wrong curve is distinguishable from a
// wrong algorithm.
package cose
