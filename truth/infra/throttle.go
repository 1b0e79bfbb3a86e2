package infra

import (
	"golang.org/x/time/rate"

	"truth-api/truth/domain"
)

// Throttle é um guarda global de sobrecarga: um único token bucket
// (golang.org/x/time/rate) compartilhado por todas as requisições, na
// frente do rate limit por cliente.
type Throttle struct {
	lim *rate.Limiter
}

var _ domain.Limiter = (*Throttle)(nil)

func NewThrottle(rps float64, burst int) *Throttle {
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t *Throttle) Allow() bool {
	if t == nil || t.lim == nil {
		return true
	}
	return t.lim.Allow()
}
