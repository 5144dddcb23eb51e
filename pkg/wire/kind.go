package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Kind is the CBOR major type of an encoded item, collapsed so that
// unsigned and negative integers share one kind.
type Kind uint8

const (
	// KindAbsent marks a field that was not present at all.
	KindAbsent Kind = iota
	KindInteger
	KindByteString
	KindTextString
	KindArray
	KindMap
	KindTag
	// KindSimple covers booleans, null, undefined and floats.
	KindSimple
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindInteger:
		return "integer"
	case KindByteString:
		return "byte string"
	case KindTextString:
		return "text string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindTag:
		return "tag"
	case KindSimple:
		return "simple"
	default:
		return "unknown"
	}
}

// KindOf classifies the first item in raw by its initial byte.
func KindOf(raw []byte) Kind {
	if len(raw) == 0 {
		return KindAbsent
	}
	switch raw[0] >> 5 {
	case 0, 1:
		return KindInteger
	case 2:
		return KindByteString
	case 3:
		return KindTextString
	case 4:
		return KindArray
	case 5:
		return KindMap
	case 6:
		return KindTag
	default:
		return KindSimple
	}
}

// DecodeInt decodes raw as a CBOR integer.
func DecodeInt(raw cbor.RawMessage) (int64, error) {
	if k := KindOf(raw); k != KindInteger {
		return 0, fmt.Errorf("expected integer, got %s", k)
	}
	var v int64
	if err := decMode.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// DecodeBytes decodes raw as a CBOR byte string.
func DecodeBytes(raw cbor.RawMessage) ([]byte, error) {
	if k := KindOf(raw); k != KindByteString {
		return nil, fmt.Errorf("expected byte string, got %s", k)
	}
	var v []byte
	if err := decMode.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
