package prod

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Count is a non-negative counter. The pouet.net API encodes counters as
// numeric strings; Count accepts strings and plain numbers and always
// marshals back to a string.
type Count int

func (c Count) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(c)))
}

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("invalid counter %s: %w", data, err)
		}
	}

	n, err := ParseCount(raw)
	if err != nil {
		return err
	}
	*c = n
	return nil
}

// ParseCount parses a counter value. An empty string counts as zero.
func ParseCount(s string) (Count, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid counter %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid counter %q: must be non-negative", s)
	}
	return Count(n), nil
}

// Score is a counter the API sends as a plain JSON number, such as cdc.
// It decodes like Count and marshals back to a number.
type Score int

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var c Count
	if err := c.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = Score(c)
	return nil
}
