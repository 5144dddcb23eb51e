// Package rkperr defines the error variants returned by the provisioning
// primitives.
//
// There are two kinds. A DecodeError means untrusted structured input was
// malformed or inconsistent and can be rejected with no partial state left
// behind. A CryptoError means a cryptographic step failed. Both carry a
// reason code and, where it applies, the field name and the expected and
// actual values, so callers branch on structure rather than message text:
//
//	var de *rkperr.DecodeError
//	if errors.As(err, &de) && de.Field == "crv" {
//	    // wrong curve
//	}
//
//	if errors.Is(err, rkperr.ErrVerificationFailure) {
//	    // reject
//	}
package rkperr
