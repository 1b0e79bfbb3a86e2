package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão de rate limit sobre uma requisição.
//
// Observação: cuidado com cardinalidade (salvar Key/Path sem controle pode
// explodir o número de chaves em uma base como Redis).
type StatsEvent struct {
	Key     Key
	Allowed bool

	Method string
	Path   string
	// Day é o dia da semana (minúsculo) em que a decisão aconteceu.
	// Útil porque a seleção de truths é enviesada por dia.
	Day string

	At time.Time
}

// StatsStore é a estratégia de persistência das estatísticas.
//
// Implementações podem armazenar em Redis, memória, etc.
// O middleware trata erro como best-effort (não derruba a request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
