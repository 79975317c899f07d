package format

import (
	"testing"
	"time"
)

func TestTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{9.9, "0:09"},
		{83, "1:23"},
		{3723, "1:02:03"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		if got := Timestamp(tt.seconds); got != tt.want {
			t.Errorf("Timestamp(%v) = %q, erwartet %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "83.5", want: 83.5},
		{in: "1:23", want: 83},
		{in: "1:02:03.5", want: 3723.5},
		{in: " 0:00 ", want: 0},
		{in: "", wantErr: true},
		{in: "1:75", wantErr: true},
		{in: "a:10", wantErr: true},
		{in: "1:2:3:4", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "-Inf", wantErr: true},
		{in: "infinity", wantErr: true},
		{in: "1:NaN", wantErr: true},
		{in: "1e400", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, erwartet %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHumanTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "Never"},
		{"sekunden", now.Add(-30 * time.Second), "30 seconds ago"},
		{"eine minute", now.Add(-time.Minute), "1 minute ago"},
		{"stunden", now.Add(-3 * time.Hour), "3 hours ago"},
		{"zukunft", now.Add(2 * time.Hour), "2 hours from now"},
		{"alt", now.Add(-60 * 24 * time.Hour), "Dec 31, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := humanTime(tt.t, "Never", now); got != tt.want {
				t.Errorf("humanTime() = %q, erwartet %q", got, tt.want)
			}
		})
	}
}
