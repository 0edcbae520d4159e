package httpclient

import (
	"encoding/json"
	"fmt"
)

// Decode unmarshals a JSON body into T. An empty body yields the zero value.
func Decode[T any](body []byte) (T, error) {
	var data T
	if len(body) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return data, fmt.Errorf("httpclient: decode response: %w", err)
	}
	return data, nil
}
