package domain

import (
	"testing"
	"time"
)

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"ZeroTime", time.Time{}, ""},
		{"JustNow", now.Add(-30 * time.Second), "just now"},
		{"FutureClampsToNow", now.Add(time.Hour), "just now"},
		{"OneMinute", now.Add(-time.Minute), "1 minute ago"},
		{"Minutes", now.Add(-45 * time.Minute), "45 minutes ago"},
		{"OneHour", now.Add(-time.Hour), "1 hour ago"},
		{"Hours", now.Add(-7 * time.Hour), "7 hours ago"},
		{"Days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"Months", now.Add(-70 * 24 * time.Hour), "2 months ago"},
		{"Years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RelativeAge(tc.t, now); got != tc.want {
				t.Errorf("RelativeAge = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRequestError(t *testing.T) {
	t.Run("Classification", func(t *testing.T) {
		if !(&RequestError{Status: 400}).IsValidation() {
			t.Error("400 not classified as validation")
		}
		if !(&RequestError{Status: 422}).IsValidation() {
			t.Error("422 not classified as validation")
		}
		if !(&RequestError{Status: 401}).IsAuthorization() {
			t.Error("401 not classified as authorization")
		}
		if !(&RequestError{Status: 403}).IsAuthorization() {
			t.Error("403 not classified as authorization")
		}
		if (&RequestError{Status: 500}).IsValidation() {
			t.Error("500 misclassified as validation")
		}
	})

	t.Run("ErrorListIsEmptyWithoutServerMessages", func(t *testing.T) {
		if got := ErrorList(&RequestError{Status: 500}); len(got) != 0 {
			t.Errorf("error list = %v, want empty", got)
		}
		if got := ErrorList(ErrServerOffline); got != nil {
			t.Errorf("error list for transport failure = %v, want nil", got)
		}
	})

	t.Run("ErrorListPassesThroughServerMessages", func(t *testing.T) {
		err := &RequestError{Status: 400, Errors: []string{"a", "b"}}
		got := ErrorList(err)
		if len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("error list = %v", got)
		}
	})
}
