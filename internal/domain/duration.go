package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a service duration. It is stored as whole seconds and rendered
// in JSON as a Go duration string ("1h30m0s").
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) Seconds() int64 {
	return int64(time.Duration(d) / time.Second)
}

func DurationFromSeconds(s int64) Duration {
	return Duration(time.Duration(s) * time.Second)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration must be a string like \"1h30m\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	*d = Duration(parsed)
	return nil
}
