package timezone_test

import (
	"testing"
	"time"

	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/timezone"
)

func TestTimezoneInit(t *testing.T) {
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	if timezone.GetLocation() == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestTimezoneWithStandardLocation(t *testing.T) {
	utcTime := time.Now().UTC()
	appTime := timezone.ToAppTime(utcTime)

	if appTime.Location() == nil {
		t.Error("expected converted time to have a location")
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")
	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2026-09-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed.IsZero() {
		t.Error("Parse() returned a zero time")
	}
}
