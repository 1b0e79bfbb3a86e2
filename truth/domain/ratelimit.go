package domain

import "time"

// Key identifica um cliente para fins de rate limit (ex: IP remoto).
type Key string

// CounterStore mantém o contador de janela fixa por chave.
//
// Hit registra uma requisição (admitida ou não) e devolve a contagem
// resultante e o instante em que a janela atual termina. A implementação
// deve serializar incrementos na mesma chave; chaves diferentes não devem
// contender entre si.
type CounterStore interface {
	Hit(key Key, now time.Time) (count int, reset time.Time)
}

// Limiter representa algo que pode decidir se uma ação é permitida agora.
// Usado pelo guarda global de sobrecarga; a implementação pode ser
// token-bucket (ex: golang.org/x/time/rate) ou outra.
type Limiter interface {
	Allow() bool
}

type Decision struct {
	Allowed bool
	// RetryAfter é quanto falta para a janela do cliente virar.
	// Só tem significado quando Allowed=false.
	RetryAfter time.Duration
}
