package serializers

// Serializer encodes values persisted by the run history store.
type Serializer interface {
	Serialize(i any) ([]byte, error)
	Deserialize(b []byte, i any) error
}

var (
	_ Serializer = (*CBORSerializer)(nil)
	_ Serializer = (*JsonSerializer)(nil)
)

// Default returns the serializer used when none is configured.
func Default() Serializer {
	return NewCBORSerializer()
}
