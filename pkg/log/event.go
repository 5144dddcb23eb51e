package log

import (
	"crypto/sha256"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/remoteprov/rkp-go/pkg/rkperr"
)

// Event records one trust-establishment operation and how it ended.
// CBOR encoding uses integer keys for compactness.
//
// Events never contain private key material or derived secrets. Keys are
// identified only by the SHA-256 digest of their public bytes.
type Event struct {
	// Timestamp when the operation completed (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// OperationID uniquely identifies the operation (UUID).
	OperationID string `cbor:"2,keyasint"`

	// Operation is what was attempted.
	Operation Operation `cbor:"3,keyasint"`

	// Outcome is how it ended.
	Outcome Outcome `cbor:"4,keyasint"`

	// KeyID is the SHA-256 digest of the public key the operation was
	// about (peer key, certified key, or root key).
	KeyID []byte `cbor:"5,keyasint,omitempty"`

	// Detail is free-form context such as a chain length.
	Detail string `cbor:"6,keyasint,omitempty"`

	// Error is set when Outcome is OutcomeError.
	Error *ErrorEventData `cbor:"7,keyasint,omitempty"`
}

// NewEvent creates an event stamped with the current time and a fresh
// operation ID.
func NewEvent(op Operation, outcome Outcome) Event {
	return Event{
		Timestamp:   time.Now(),
		OperationID: uuid.NewString(),
		Operation:   op,
		Outcome:     outcome,
	}
}

// WithKey sets KeyID to the digest of the raw public key pub.
func (e Event) WithKey(pub []byte) Event {
	if len(pub) == 0 {
		return e
	}
	sum := sha256.Sum256(pub)
	e.KeyID = sum[:]
	return e
}

// WithDetail sets Detail.
func (e Event) WithDetail(detail string) Event {
	e.Detail = detail
	return e
}

// WithError fills Error from err, extracting the structured fields of
// rkperr errors.
func (e Event) WithError(err error) Event {
	if err == nil {
		return e
	}
	data := &ErrorEventData{
		Message: err.Error(),
		Code:    rkperr.Code(err),
	}
	var de *rkperr.DecodeError
	var ce *rkperr.CryptoError
	switch {
	case errors.As(err, &de):
		data.Kind = ErrorKindDecode
		data.Reason = de.Reason.String()
		data.Field = de.Field
	case errors.As(err, &ce):
		data.Kind = ErrorKindCrypto
		data.Reason = ce.Reason.String()
	}
	e.Error = data
	return e
}

// Operation identifies the trust operation being logged.
type Operation uint8

const (
	OpDeriveSend    Operation = 0
	OpDeriveReceive Operation = 1
	OpSign          Operation = 2
	OpVerify        Operation = 3
	OpExtract       Operation = 4
	OpBuildChain    Operation = 5
	OpValidateChain Operation = 6
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpDeriveSend:
		return "DERIVE_SEND"
	case OpDeriveReceive:
		return "DERIVE_RECEIVE"
	case OpSign:
		return "SIGN"
	case OpVerify:
		return "VERIFY"
	case OpExtract:
		return "EXTRACT"
	case OpBuildChain:
		return "BUILD_CHAIN"
	case OpValidateChain:
		return "VALIDATE_CHAIN"
	default:
		return "UNKNOWN"
	}
}

// Outcome classifies how an operation ended.
type Outcome uint8

const (
	// OutcomeSuccess means the operation completed and, for checks, passed.
	OutcomeSuccess Outcome = 0
	// OutcomeRejected means a check ran to completion and failed, e.g. a
	// signature that does not verify.
	OutcomeRejected Outcome = 1
	// OutcomeError means the operation could not complete.
	OutcomeError Outcome = 2
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeRejected:
		return "REJECTED"
	case OutcomeError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ErrorKind separates structural from cryptographic failures.
type ErrorKind uint8

const (
	ErrorKindOther  ErrorKind = 0
	ErrorKindDecode ErrorKind = 1
	ErrorKindCrypto ErrorKind = 2
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindDecode:
		return "DECODE"
	case ErrorKindCrypto:
		return "CRYPTO"
	default:
		return "OTHER"
	}
}

// ErrorEventData captures a failed operation.
type ErrorEventData struct {
	// Kind is the error variant.
	Kind ErrorKind `cbor:"1,keyasint"`

	// Reason is the reason code name (e.g. "TYPE_MISMATCH").
	Reason string `cbor:"2,keyasint,omitempty"`

	// Field is the offending field for decode errors.
	Field string `cbor:"3,keyasint,omitempty"`

	// Code is the numeric reason code from rkperr.Code.
	Code int `cbor:"4,keyasint,omitempty"`

	// Message is the error text.
	Message string `cbor:"5,keyasint"`
}
