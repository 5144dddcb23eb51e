// Package bcc builds and validates boot certificate chains.
//
// A chain anchors a device's identity key to a root key:
//
//	[ root COSE_Key, COSE_Sign1(root -> device key) ]
//
// Only this single-link form is accepted. A chain of any other length is
// rejected with a VerificationFailure rather than interpreted.
package bcc
