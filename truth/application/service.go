package application

import (
	"time"

	"truth-api/truth/domain"
)

// RateLimitService concentra a regra de aplicação do rate limit de janela
// fixa.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type RateLimitService struct {
	Store domain.CounterStore
	// Limit é o máximo de requisições admitidas por janela e por chave.
	Limit int
}

func (s RateLimitService) Decide(key domain.Key, now time.Time) domain.Decision {
	if s.Store == nil || s.Limit <= 0 {
		return domain.Decision{Allowed: true}
	}

	// a requisição rejeitada também conta um hit; isso mantém a entrada
	// viva e a janela do cliente estável enquanto ele insiste.
	count, reset := s.Store.Hit(key, now)
	if count > s.Limit {
		return domain.Decision{Allowed: false, RetryAfter: reset.Sub(now)}
	}
	return domain.Decision{Allowed: true}
}
