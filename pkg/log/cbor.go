package log

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/remoteprov/rkp-go/pkg/wire"
)

// Events share the module's deterministic wire encoding, with timestamps
// written as RFC 3339 strings so nanoseconds survive.
var (
	eventEncMode = wire.MustEncMode(eventEncOptions())
	eventDecMode = wire.MustDecMode(wire.DecOptions())
)

func eventEncOptions() cbor.EncOptions {
	opts := wire.EncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	return opts
}

// EncodeEvent encodes an Event to CBOR bytes using integer keys.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent decodes a single CBOR-encoded Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := eventDecMode.Unmarshal(data, &event)
	return event, err
}

// NewEncoder returns an encoder that writes a CBOR sequence of events to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEncMode.NewEncoder(w)
}

// NewDecoder returns a decoder that reads a CBOR sequence of events from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDecMode.NewDecoder(r)
}
