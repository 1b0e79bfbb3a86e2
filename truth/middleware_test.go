package truth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"truth-api/truth/application"
	"truth-api/truth/infra"
)

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			*calls++
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
}

func limitedChain(limit int, stats *infra.MemoryStatsStore, exempt ...string) http.Handler {
	opts := Options{
		Service: application.RateLimitService{
			Store: infra.NewWindowStore(time.Hour),
			Limit: limit,
		},
		Exempt: exempt,
	}
	if stats != nil {
		opts.Stats = stats
	}
	h := RateLimitMiddleware(opts)(okHandler(nil))
	h = StandardHeaders(h)
	return RequestID(h)
}

func get(t *testing.T, h http.Handler, path, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "http://example"+path, nil)
	r.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRateLimitMiddleware_AllowsUpToLimitThenRejects(t *testing.T) {
	stats := infra.NewMemoryStatsStore()
	h := limitedChain(2, stats)

	// 1) e 2) passam
	for i := 0; i < 2; i++ {
		if w := get(t, h, "/truth", "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	// 3) bloqueia com o corpo estruturado
	w := get(t, h, "/truth", "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got == "" {
		t.Fatalf("expected Retry-After header to be set")
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("rejections must also carry Cache-Control: no-store, got %q", got)
	}

	var body struct {
		Error             string `json:"error"`
		Message           string `json:"message"`
		RequestID         string `json:"request_id"`
		RetryAfterSeconds int    `json:"retry_after_seconds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode 429 body: %v", err)
	}
	if body.Error != "rate_limited" {
		t.Fatalf("expected error=rate_limited, got %q", body.Error)
	}
	if body.Message != "Too many requests." {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.RequestID == "" {
		t.Fatalf("expected a request_id in the error body")
	}
	if body.RetryAfterSeconds < 1 || body.RetryAfterSeconds > 3600 {
		t.Fatalf("retry_after_seconds out of range: %d", body.RetryAfterSeconds)
	}

	total := stats.Total()
	if total.Served != 2 || total.Limited != 1 {
		t.Fatalf("expected stats 2 served / 1 limited, got %+v", total)
	}
}

func TestRateLimitMiddleware_KeysAreIsolated(t *testing.T) {
	h := limitedChain(1, nil)

	if w := get(t, h, "/truth", "10.0.0.1:1111"); w.Code != http.StatusOK {
		t.Fatalf("first key: expected 200, got %d", w.Code)
	}
	if w := get(t, h, "/truth", "10.0.0.1:1111"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("first key exhausted: expected 429, got %d", w.Code)
	}

	// outro endereço tem cota própria
	if w := get(t, h, "/truth", "10.0.0.2:1111"); w.Code != http.StatusOK {
		t.Fatalf("second key: expected 200, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_ForgedHeadersDoNotChangeTheKey(t *testing.T) {
	h := limitedChain(1, nil)

	r1 := httptest.NewRequest(http.MethodGet, "http://example/truth", nil)
	r1.RemoteAddr = "10.0.0.1:1111"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	// mesmo endereço com XFF diferente continua na mesma cota
	r2 := httptest.NewRequest(http.MethodGet, "http://example/truth", nil)
	r2.RemoteAddr = "10.0.0.1:2222"
	r2.Header.Set("X-Forwarded-For", "8.8.8.8")
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("forged XFF must not reset the quota, got %d", w2.Code)
	}
}

func TestRateLimitMiddleware_ExemptRoutesBypass(t *testing.T) {
	h := limitedChain(1, nil, "/health")

	for i := 0; i < 20; i++ {
		if w := get(t, h, "/health", "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("health request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitMiddleware_WindowElapsesAndAdmitsAgain(t *testing.T) {
	store := infra.NewWindowStore(50 * time.Millisecond)
	h := RequestID(RateLimitMiddleware(Options{
		Service: application.RateLimitService{Store: store, Limit: 1},
	})(okHandler(nil)))

	if w := get(t, h, "/truth", "10.0.0.1:1"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := get(t, h, "/truth", "10.0.0.1:1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	time.Sleep(60 * time.Millisecond)

	if w := get(t, h, "/truth", "10.0.0.1:1"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 after the window elapsed, got %d", w.Code)
	}
}

func TestThrottleMiddleware_RejectsWithStructured503(t *testing.T) {
	h := RequestID(ThrottleMiddleware(infra.NewThrottle(0.02, 1))(okHandler(nil)))

	if w := get(t, h, "/truth", "10.0.0.1:1"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w := get(t, h, "/truth", "10.0.0.1:1")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode 503 body: %v", err)
	}
	if body.Error != "overloaded" || body.RequestID == "" {
		t.Fatalf("unexpected 503 body: %+v", body)
	}
}

func TestConcurrencyMiddleware_RejectsWhenSaturated(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-unblock
		w.WriteHeader(http.StatusOK)
	})

	h := RequestID(ConcurrencyMiddleware(ConcurrencyOptions{
		Max:            1,
		AcquireTimeout: 20 * time.Millisecond,
	})(slow))

	done := make(chan struct{})
	go func() {
		defer close(done)
		get(t, h, "/truth", "10.0.0.1:1")
	}()

	<-entered
	// com a única vaga ocupada, a segunda requisição estoura o timeout
	if w := get(t, h, "/truth", "10.0.0.2:1"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while saturated, got %d", w.Code)
	}

	close(unblock)
	<-done
}

func TestRequestID_HeaderAndContextAgree(t *testing.T) {
	var fromCtx string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	w := get(t, h, "/truth", "10.0.0.1:1")
	if got := w.Header().Get("X-Request-ID"); got == "" || got != fromCtx {
		t.Fatalf("header %q and context %q should carry the same id", got, fromCtx)
	}
}
