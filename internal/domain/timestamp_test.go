package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "rfc3339 utc", in: `"2024-05-01T10:20:30Z"`, want: time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{name: "rfc3339 offset", in: `"2024-05-01T10:20:30.5-03:00"`, want: time.Date(2024, 5, 1, 13, 20, 30, 500000000, time.UTC)},
		{name: "naive micros", in: `"2024-05-01T10:20:30.123456"`, want: time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.UTC)},
		{name: "naive seconds", in: `"2024-05-01T10:20:30"`, want: time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{name: "naive with space", in: `"2024-05-01 10:20:30"`, want: time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{name: "null", in: `null`},
		{name: "empty", in: `""`},
		{name: "garbage", in: `"yesterday"`, wantErr: true},
		{name: "number", in: `1714558830`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.in), &ts)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", ts.Time)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if !ts.Time.Equal(tt.want) {
				t.Fatalf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampPtr(t *testing.T) {
	var missing *Timestamp
	if missing.Ptr() != nil {
		t.Fatalf("nil timestamp should give nil")
	}
	if (&Timestamp{}).Ptr() != nil {
		t.Fatalf("zero timestamp should give nil")
	}
	now := time.Now().UTC()
	if p := (&Timestamp{Time: now}).Ptr(); p == nil || !p.Equal(now) {
		t.Fatalf("Ptr() = %v, want %v", p, now)
	}
}
