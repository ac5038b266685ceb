package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
)

// ImageBytes is the RGBA byte length of a width x height image. ok is false
// for negative sizes and for lengths that do not fit in an int.
func ImageBytes(width, height int) (n int, ok bool) {
	if width < 0 || height < 0 {
		return 0, false
	}
	if width != 0 && height > math.MaxInt/4/width {
		return 0, false
	}
	return width * height * 4, true
}

// Pixels is a byte sequence that the peer encodes as a JSON array of
// integers. A base64 string is accepted as well.
type Pixels []byte

func (p *Pixels) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("pixels: %w", err)
		}
		*p = b
		return nil
	}

	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("pixels: %w", err)
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("pixels[%d]: %d out of byte range", i, v)
		}
		out[i] = byte(v)
	}
	*p = out
	return nil
}

func (p Pixels) MarshalJSON() ([]byte, error) {
	values := make([]int, len(p))
	for i, b := range p {
		values[i] = int(b)
	}
	return json.Marshal(values)
}
