package serializers

import "encoding/json"

type JsonSerializer struct {
}

func (s *JsonSerializer) Serialize(i any) ([]byte, error) {
	return json.Marshal(i)
}

func (s *JsonSerializer) Deserialize(b []byte, i any) error {
	return json.Unmarshal(b, i)
}
