package truth

import (
	"net/http"
	"time"

	"truth-api/truth/application"
	"truth-api/truth/domain"
	"truth-api/truth/infra"
)

type Options struct {
	Service application.RateLimitService
	// Stats recebe cada decisão, best-effort. Pode ser nil.
	Stats domain.StatsStore
	// Exempt lista os paths que não passam pelo limiter (ex: /health).
	Exempt []string
}

// RateLimitMiddleware aplica a janela fixa por endereço remoto.
//
// Rotas isentas passam direto. Bloqueado responde o 429 estruturado; o
// corpo de sucesso fica por conta do próximo handler.
func RateLimitMiddleware(opts Options) func(next http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(opts.Exempt))
	for _, p := range opts.Exempt {
		exempt[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key := ClientKey(r)
			now := time.Now().UTC()
			dec := opts.Service.Decide(key, now)

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     key,
					Allowed: dec.Allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					Day:     dayString(now),
					At:      now,
				})
			}

			if !dec.Allowed {
				writeRateLimited(w, r, int(dec.RetryAfter.Seconds()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ThrottleMiddleware é o guarda global de sobrecarga. Diferente do rate
// limit por cliente, aqui a rejeição é 503: o problema é do servidor, não
// do cliente.
func ThrottleMiddleware(lim domain.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if lim == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, r, http.StatusServiceUnavailable, "overloaded", "Server is overloaded, try again shortly.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ConcurrencyOptions struct {
	Max            int
	AcquireTimeout time.Duration
}

// ConcurrencyMiddleware limita quantas requisições ficam em voo ao mesmo
// tempo. Max <= 0 desliga o middleware.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewSlotPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				writeError(w, r, http.StatusServiceUnavailable, "overloaded", "Too many concurrent requests.")
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
