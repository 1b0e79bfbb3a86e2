package application

import (
	"testing"
	"time"

	"truth-api/truth/domain"
	"truth-api/truth/infra"
)

type fakeCounter struct {
	count int
	reset time.Time
}

func (f *fakeCounter) Hit(_ domain.Key, _ time.Time) (int, time.Time) {
	f.count++
	return f.count, f.reset
}

func TestRateLimitService_AdmitsUpToLimit(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	svc := RateLimitService{
		Store: &fakeCounter{reset: now.Add(time.Hour)},
		Limit: 3,
	}

	for i := 1; i <= 3; i++ {
		if dec := svc.Decide("k", now); !dec.Allowed {
			t.Fatalf("request %d should be admitted", i)
		}
	}

	dec := svc.Decide("k", now)
	if dec.Allowed {
		t.Fatalf("request above the limit should be rejected")
	}
	if dec.RetryAfter != time.Hour {
		t.Fatalf("expected RetryAfter of 1h, got %s", dec.RetryAfter)
	}
}

func TestRateLimitService_HundredthAdmittedHundredFirstRejected(t *testing.T) {
	svc := RateLimitService{
		Store: infra.NewWindowStore(time.Hour),
		Limit: 100,
	}
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 100; i++ {
		if dec := svc.Decide("1.2.3.4", now); !dec.Allowed {
			t.Fatalf("request %d within the window should be admitted", i)
		}
	}

	dec := svc.Decide("1.2.3.4", now.Add(30*time.Minute))
	if dec.Allowed {
		t.Fatalf("101st request within the hour should be rejected")
	}
	if dec.RetryAfter != 30*time.Minute {
		t.Fatalf("expected 30m until the window resets, got %s", dec.RetryAfter)
	}

	// janela virou: a cota recomeça
	if dec := svc.Decide("1.2.3.4", now.Add(time.Hour)); !dec.Allowed {
		t.Fatalf("request after the window elapsed should be admitted again")
	}
}

func TestRateLimitService_NilStoreAlwaysAdmits(t *testing.T) {
	svc := RateLimitService{Limit: 1}
	for i := 0; i < 10; i++ {
		if dec := svc.Decide("k", time.Now()); !dec.Allowed {
			t.Fatalf("nil store must never reject")
		}
	}
}

func TestRateLimitService_ZeroLimitDisables(t *testing.T) {
	svc := RateLimitService{Store: &fakeCounter{}, Limit: 0}
	if dec := svc.Decide("k", time.Now()); !dec.Allowed {
		t.Fatalf("limit <= 0 should disable the limiter")
	}
}
