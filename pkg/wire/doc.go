// Package wire defines the CBOR codec shared by the provisioning primitives.
//
// Key objects, signed objects, derivation contexts and boot certificate
// chains are all CBOR (RFC 8949). Encoding is deterministic so that two
// peers computing the same structure produce the same bytes, which matters
// wherever encoded bytes feed a signature or a key derivation.
//
// # Strict Decoding
//
// Input decoded through this package comes from the other party and is
// untrusted. Duplicate map keys are rejected, and callers that need to
// enforce a field's type decode into cbor.RawMessage and check its Kind
// before interpreting the value:
//
//	var m map[int]cbor.RawMessage
//	if err := wire.Unmarshal(data, &m); err != nil { ... }
//	if wire.KindOf(m[3]) != wire.KindInteger { ... }
package wire
