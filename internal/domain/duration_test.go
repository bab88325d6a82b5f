package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDurationJSONRoundTrip(t *testing.T) {
	d := Duration(90 * time.Minute)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"1h30m0s"` {
		t.Fatalf("unexpected encoding %s", data)
	}

	var back Duration
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestDurationRejectsNegative(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"-5m"`), &d); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestDurationSeconds(t *testing.T) {
	d := DurationFromSeconds(5400)
	if d.Seconds() != 5400 {
		t.Fatalf("expected 5400 seconds, got %d", d.Seconds())
	}
	if d.Std() != 90*time.Minute {
		t.Fatalf("expected 90m, got %v", d.Std())
	}
}
