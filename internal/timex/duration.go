// Package timex provides a JSON-friendly wrapper around time.Duration.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration unmarshals from either a duration string ("168h") or an integer
// number of nanoseconds. It is used by config DTOs read from JSON files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
