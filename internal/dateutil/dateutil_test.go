package dateutil

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2024-03-07T09:05")
	if err != nil {
		t.Fatalf("ParseDateTime failed: %v", err)
	}
	want := time.Date(2024, 3, 7, 9, 5, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDateTimeDateOnly(t *testing.T) {
	got, err := ParseDateTime("2024-03-07")
	if err != nil {
		t.Fatalf("ParseDateTime failed: %v", err)
	}
	want := time.Date(2024, 3, 7, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected midnight, got %v", got)
	}
}

func TestParseDateTimeInvalid(t *testing.T) {
	for _, s := range []string{"", "soon", "2024-13-07T09:05", "2024-03-07Tlate"} {
		if _, err := ParseDateTime(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestFormatDateTimeZeroPadded(t *testing.T) {
	d := time.Date(2024, 3, 7, 9, 5, 0, 0, time.Local)
	if got := FormatDateTime(d); got != "2024-03-07T09:05" {
		t.Errorf("expected 2024-03-07T09:05, got %q", got)
	}
	if got := FormatDate(d); got != "2024-03-07" {
		t.Errorf("expected 2024-03-07, got %q", got)
	}
}

func TestAddMonthsRollover(t *testing.T) {
	// Jan 31 + 1 month lands in March because February is shorter.
	d := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)
	got := AddMonths(d, 1)
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStartOfWeekSunday(t *testing.T) {
	// Wednesday March 6th belongs to the week starting Sunday March 3rd.
	d := time.Date(2024, 3, 6, 15, 30, 0, 0, time.Local)
	got := StartOfWeekSunday(d)
	want := time.Date(2024, 3, 3, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// A Sunday is its own week start.
	sun := time.Date(2024, 3, 3, 23, 0, 0, 0, time.Local)
	if got := StartOfWeekSunday(sun); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMillisRoundTrip(t *testing.T) {
	d := time.Date(2024, 3, 7, 9, 5, 42, 0, time.Local)
	if got := FromMillis(Millis(d)); !got.Equal(d) {
		t.Errorf("expected %v, got %v", d, got)
	}
}
