package serializers

import (
	"github.com/fxamacker/cbor/v2"
)

type CBORSerializer struct {
	EncMode cbor.EncMode
	DecMode cbor.DecMode
}

// NewCBORSerializer uses deterministic encoding with RFC 3339 nano
// timestamps, so equal runs always encode to equal bytes.
func NewCBORSerializer() *CBORSerializer {
	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano

	encMode, err := encOpts.EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}

	return &CBORSerializer{EncMode: encMode, DecMode: decMode}
}

func (c *CBORSerializer) Serialize(i any) ([]byte, error) {
	if c.EncMode != nil {
		return c.EncMode.Marshal(i)
	}
	return cbor.Marshal(i)
}

func (c *CBORSerializer) Deserialize(b []byte, i any) error {
	if c.DecMode != nil {
		return c.DecMode.Unmarshal(b, i)
	}
	return cbor.Unmarshal(b, i)
}
