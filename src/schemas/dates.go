package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"portfolio/src/utils"
)

// Date accepts both RFC 3339 timestamps and YYYY-MM-DD dates on the wire.
type Date struct {
	time.Time
}

// ToTime returns the underlying time.Time value
func (d Date) ToTime() time.Time {
	return d.Time
}

// UnmarshalJSON implements json.Unmarshaler interface
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid date %s: %v", data, err)
	}
	if str == "" {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := utils.ParseDate(str)
	if err != nil {
		return fmt.Errorf("invalid date format, expected RFC 3339 or YYYY-MM-DD: %v", err)
	}

	d.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler interface
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, d.Format(time.RFC3339))), nil
}
