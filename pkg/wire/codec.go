package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode = MustEncMode(EncOptions())
	decMode = MustDecMode(DecOptions())
)

// EncOptions returns the deterministic encoding options (RFC 8949 section
// 4.2.1) behind Marshal. Both peers produce identical bytes for identical
// values. Callers may adjust the returned copy to build a derived mode.
func EncOptions() cbor.EncOptions {
	return cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
}

// DecOptions returns the strict decoding options behind Unmarshal.
// Duplicate map labels are rejected: input arrives from the other party.
func DecOptions() cbor.DecOptions {
	return cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
}

// MustEncMode builds an encoder mode and panics if opts are invalid.
func MustEncMode(opts cbor.EncOptions) cbor.EncMode {
	m, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: invalid encoder options: %v", err))
	}
	return m
}

// MustDecMode builds a decoder mode and panics if opts are invalid.
func MustDecMode(opts cbor.DecOptions) cbor.DecMode {
	m, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("wire: invalid decoder options: %v", err))
	}
	return m
}

// ErrUnexpectedTag is returned when a tagged item carries a different tag number.
var ErrUnexpectedTag = errors.New("unexpected CBOR tag")

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder creates a new CBOR encoder that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a new CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// Wellformed reports whether data is exactly one well-formed CBOR item.
func Wellformed(data []byte) error {
	return decMode.Wellformed(data)
}

// MarshalTagged encodes v as the content of a CBOR tag.
func MarshalTagged(number uint64, v any) ([]byte, error) {
	return encMode.Marshal(cbor.Tag{Number: number, Content: v})
}

// Untag returns the content of a tagged item if data starts with the given
// tag, or data itself if it is untagged. A different tag number is an error.
func Untag(data []byte, number uint64) ([]byte, error) {
	if KindOf(data) != KindTag {
		return data, nil
	}
	var tag cbor.RawTag
	if err := decMode.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("failed to decode tag: %w", err)
	}
	if tag.Number != number {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedTag, tag.Number, number)
	}
	return tag.Content, nil
}

// Equal compares two values by their CBOR encoding.
func Equal(a, b any) bool {
	dataA, errA := Marshal(a)
	dataB, errB := Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(dataA, dataB)
}
