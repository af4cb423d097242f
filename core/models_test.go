package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFingerprintFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same fingerprint", content: `[{"ipAddress":"1.2.3.4"}]`},
		{name: "empty content", content: ""},
		{name: "long content", content: strings.Repeat(`{"url":"http://example.com/a"},`, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f1 := FingerprintFromContent([]byte(tt.content))
			f2 := FingerprintFromContent([]byte(tt.content))
			if f1 != f2 {
				t.Errorf("FingerprintFromContent() produced different values for same content: %s vs %s", f1, f2)
			}
		})
	}
}

func TestFingerprintFromContent_Different(t *testing.T) {
	f1 := FingerprintFromContent([]byte("content1"))
	f2 := FingerprintFromContent([]byte("content2"))

	if f1 == f2 {
		t.Errorf("FingerprintFromContent() produced same value for different content")
	}
	if len(f1.String()) != 16 {
		t.Errorf("String() = %q, want 16 hex digits", f1.String())
	}
}

func TestNewIndicatorID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewIndicatorID()
		if !IsIndicatorID(id) {
			t.Fatalf("NewIndicatorID() = %q, not a valid indicator id", id)
		}
		if seen[id] {
			t.Fatalf("NewIndicatorID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestNewBundleID(t *testing.T) {
	id := NewBundleID()
	if !IsBundleID(id) {
		t.Errorf("NewBundleID() = %q, not a valid bundle id", id)
	}
	if IsIndicatorID(id) {
		t.Errorf("bundle id %q accepted as indicator id", id)
	}
}

func TestIsIndicatorID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"indicator--8e2e2d2b-17d4-4cbf-938f-98ee46b3cd3f", true},
		{"indicator--", false},
		{"", false},
		{"indicator--not-a-uuid", false},
		{"bundle--8e2e2d2b-17d4-4cbf-938f-98ee46b3cd3f", false},
		{"indicator--{8e2e2d2b-17d4-4cbf-938f-98ee46b3cd3f}", false},
	}
	for _, tt := range tests {
		if got := IsIndicatorID(tt.id); got != tt.want {
			t.Errorf("IsIndicatorID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2025, 3, 4, 7, 8, 9, 123456789, loc)

	got := FormatTimestamp(ts)
	want := "2025-03-04T05:08:09.123Z"
	if got != want {
		t.Errorf("FormatTimestamp() = %q, want %q", got, want)
	}
	if !IsValidTimestamp(got) {
		t.Errorf("FormatTimestamp() output %q does not round trip", got)
	}
}

func TestFormatTimestamp_ZeroMillis(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "2025-01-01T00:00:00.000Z" {
		t.Errorf("FormatTimestamp() = %q, want trailing .000Z", got)
	}
}

func TestIndicator_JSONFieldOrder(t *testing.T) {
	ind := Indicator{
		Type:        IndicatorType,
		SpecVersion: SpecVersion21,
		Pattern:     "[ipv4-addr:value = '1.2.3.4']",
		PatternType: PatternTypeSTIX,
	}
	data, err := json.Marshal(ind)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"indicator","spec_version":"2.1","id":"","created":"","modified":"",` +
		`"pattern":"[ipv4-addr:value = '1.2.3.4']","pattern_type":"stix","valid_from":""}`
	if string(data) != want {
		t.Errorf("json = %s\nwant %s", data, want)
	}
}

func TestFailure_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	f := &Failure{Batch: 2, Raw: "not json", Err: cause}

	if !errors.Is(f, cause) {
		t.Errorf("errors.Is(failure, cause) = false")
	}
	if !strings.Contains(f.Error(), "batch 2") {
		t.Errorf("Error() = %q, want batch number", f.Error())
	}
}
