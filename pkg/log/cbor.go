package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Event logs are a plain stream of top-level CBOR maps, one per event,
// with integer keys (see the cbor tags on Event). Encoding is canonical
// so identical events produce identical bytes; timestamps keep
// nanosecond precision.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: invalid CBOR encoder options: %v", err))
	}
	encMode = em

	// The decoder is lenient: logs written by older versions or other
	// tools should still be readable.
	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: invalid CBOR decoder options: %v", err))
	}
	decMode = dm
}

// EncodeEvent encodes a single event to its CBOR representation.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes a single CBOR-encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a streaming event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a streaming event decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
