package rkperr

import (
	"errors"
	"fmt"
)

// Error kinds. Every DecodeError matches ErrDecode and every CryptoError
// matches ErrCrypto under errors.Is.
var (
	ErrDecode = errors.New("structural decode error")
	ErrCrypto = errors.New("cryptographic error")
)

// DecodeReason identifies why structured input was rejected.
type DecodeReason uint8

const (
	// Deserialization means the input is not a well-formed object of the
	// expected shape.
	Deserialization DecodeReason = iota + 1

	// TypeMismatch means a field has the wrong CBOR major type.
	TypeMismatch

	// IncorrectKeyType means key type, algorithm or curve disagree with
	// what the operation requires.
	IncorrectKeyType
)

// String returns the reason name.
func (r DecodeReason) String() string {
	switch r {
	case Deserialization:
		return "DESERIALIZATION_ERROR"
	case TypeMismatch:
		return "TYPE_MISMATCH"
	case IncorrectKeyType:
		return "INCORRECT_COSE_TYPE"
	default:
		return "UNKNOWN"
	}
}

// CryptoReason identifies which cryptographic step failed.
type CryptoReason uint8

const (
	NoSuchAlgorithm CryptoReason = iota + 1
	MalformedKey
	EncryptionFailure
	DecryptionFailure
	SigningFailure
	VerificationFailure
)

// String returns the reason name.
func (r CryptoReason) String() string {
	switch r {
	case NoSuchAlgorithm:
		return "NO_SUCH_ALGORITHM"
	case MalformedKey:
		return "MALFORMED_KEY"
	case EncryptionFailure:
		return "ENCRYPTION_FAILURE"
	case DecryptionFailure:
		return "DECRYPTION_FAILURE"
	case SigningFailure:
		return "SIGNING_FAILURE"
	case VerificationFailure:
		return "VERIFICATION_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// DecodeError reports malformed or inconsistent structured input.
//
// For TypeMismatch, Expected and Actual hold wire.Kind values. For
// IncorrectKeyType they hold the expected and found int64 identifiers.
type DecodeError struct {
	Reason DecodeReason

	// Field is the name of the offending field ("kty", "alg", "crv", "x"),
	// empty when the whole object failed to decode.
	Field string

	Expected any
	Actual   any

	// Err is the underlying decoder error, if any.
	Err error
}

// Error implements error.
func (e *DecodeError) Error() string {
	msg := "decode: " + e.Reason.String()
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Expected != nil || e.Actual != nil {
		msg += fmt.Sprintf(": expected %v, got %v", e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches ErrDecode and any DecodeError with the same reason.
func (e *DecodeError) Is(target error) bool {
	if target == ErrDecode {
		return true
	}
	t, ok := target.(*DecodeError)
	return ok && t.Reason == e.Reason && (t.Field == "" || t.Field == e.Field)
}

// CryptoError reports a failed cryptographic operation.
type CryptoError struct {
	Reason CryptoReason

	// Op names the operation that failed ("derive", "sign", ...).
	Op string

	// Err is the underlying cause. Decryption failures never carry one.
	Err error
}

// Error implements error.
func (e *CryptoError) Error() string {
	msg := "crypto: " + e.Reason.String()
	if e.Op != "" {
		msg = "crypto " + e.Op + ": " + e.Reason.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CryptoError) Unwrap() error {
	return e.Err
}

// Is matches ErrCrypto and any CryptoError with the same reason.
func (e *CryptoError) Is(target error) bool {
	if target == ErrCrypto {
		return true
	}
	t, ok := target.(*CryptoError)
	return ok && t.Reason == e.Reason
}

// Reason sentinels for errors.Is.
var (
	ErrDeserialization  = &DecodeError{Reason: Deserialization}
	ErrTypeMismatch     = &DecodeError{Reason: TypeMismatch}
	ErrIncorrectKeyType = &DecodeError{Reason: IncorrectKeyType}

	ErrNoSuchAlgorithm     = &CryptoError{Reason: NoSuchAlgorithm}
	ErrMalformedKey        = &CryptoError{Reason: MalformedKey}
	ErrEncryptionFailure   = &CryptoError{Reason: EncryptionFailure}
	ErrDecryptionFailure   = &CryptoError{Reason: DecryptionFailure}
	ErrSigningFailure      = &CryptoError{Reason: SigningFailure}
	ErrVerificationFailure = &CryptoError{Reason: VerificationFailure}
)

// Decode builds a DecodeError for a whole-object failure.
func Decode(err error) *DecodeError {
	return &DecodeError{Reason: Deserialization, Err: err}
}

// Mismatch builds a TypeMismatch error for field.
func Mismatch(field string, expected, actual any) *DecodeError {
	return &DecodeError{Reason: TypeMismatch, Field: field, Expected: expected, Actual: actual}
}

// WrongKey builds an IncorrectKeyType error for field.
func WrongKey(field string, expected, actual int64) *DecodeError {
	return &DecodeError{Reason: IncorrectKeyType, Field: field, Expected: expected, Actual: actual}
}

// Crypto builds a CryptoError.
func Crypto(reason CryptoReason, op string, err error) *CryptoError {
	return &CryptoError{Reason: reason, Op: op, Err: err}
}

// Code returns the numeric reason code carried by err, or 0 if err is
// neither a DecodeError nor a CryptoError. Decode reasons are offset by 100
// so the two ranges never collide.
func Code(err error) int {
	var de *DecodeError
	if errors.As(err, &de) {
		return 100 + int(de.Reason)
	}
	var ce *CryptoError
	if errors.As(err, &ce) {
		return int(ce.Reason)
	}
	return 0
}
