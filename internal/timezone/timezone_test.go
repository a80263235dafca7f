package timezone

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{
			name:    "UTC",
			tz:      "UTC",
			wantErr: false,
		},
		{
			name:    "empty string defaults to UTC",
			tz:      "",
			wantErr: false,
		},
		{
			name:    "Europe/Moscow",
			tz:      "Europe/Moscow",
			wantErr: false,
		},
		{
			name:    "America/New_York",
			tz:      "America/New_York",
			wantErr: false,
		},
		{
			name:    "invalid timezone",
			tz:      "Invalid/Timezone",
			wantErr: true,
		},
		{
			name:    "not a zone name at all",
			tz:      "Moscow time",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Resolve(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Error("Resolve() returned nil location without error")
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("Asia/Tokyo") {
		t.Error("IsValid(Asia/Tokyo) = false, want true")
	}
	if IsValid("Nowhere/Land") {
		t.Error("IsValid(Nowhere/Land) = true, want false")
	}
}

func TestLocalToInstant(t *testing.T) {
	moscow, err := Resolve("Europe/Moscow")
	if err != nil {
		t.Fatalf("Resolve(Europe/Moscow) error = %v", err)
	}

	// Moscow is UTC+3 year-round; 14:30 local is 11:30 UTC.
	got, err := LocalToInstant("2025-08-29", "14:30", moscow)
	if err != nil {
		t.Fatalf("LocalToInstant() error = %v", err)
	}
	want := time.Date(2025, 8, 29, 11, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("LocalToInstant() = %v, want %v", got.UTC(), want)
	}
}

func TestLocalToInstantDST(t *testing.T) {
	ny, err := Resolve("America/New_York")
	if err != nil {
		t.Fatalf("Resolve(America/New_York) error = %v", err)
	}

	tests := []struct {
		name  string
		date  string
		clock string
		want  time.Time
	}{
		{
			name:  "summer is EDT (UTC-4)",
			date:  "2025-07-01",
			clock: "09:00",
			want:  time.Date(2025, 7, 1, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "winter is EST (UTC-5)",
			date:  "2025-12-01",
			clock: "09:00",
			want:  time.Date(2025, 12, 1, 14, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalToInstant(tt.date, tt.clock, ny)
			if err != nil {
				t.Fatalf("LocalToInstant() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("LocalToInstant() = %v, want %v", got.UTC(), tt.want)
			}
		})
	}
}

func TestLocalToInstantRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
	}{
		{name: "garbage date", date: "tomorrow", clock: "14:30"},
		{name: "garbage time", date: "2025-08-29", clock: "half past two"},
		{name: "wrong date order", date: "29-08-2025", clock: "14:30"},
		{name: "month out of range", date: "2025-13-01", clock: "14:30"},
		{name: "empty", date: "", clock: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LocalToInstant(tt.date, tt.clock, time.UTC); err == nil {
				t.Errorf("LocalToInstant(%q, %q) expected error", tt.date, tt.clock)
			}
		})
	}
}

func TestFormatLocal(t *testing.T) {
	instant := time.Date(2025, 8, 29, 11, 30, 0, 0, time.UTC)
	if got := FormatLocal(instant, "Europe/Moscow"); got != "2025-08-29 14:30" {
		t.Errorf("FormatLocal() = %q, want %q", got, "2025-08-29 14:30")
	}
}
