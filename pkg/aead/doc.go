// Package aead encrypts provisioning payloads with AES-GCM.
//
// Keys come from package agreement. Callers own nonce management: an IV
// must never be reused with the same key.
package aead
