package infra

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"truth-api/truth/domain"
)

// WindowStore é um contador de janela fixa por chave.
//
// As entradas vivem num cache com TTL (patrickmn/go-cache): o janitor do
// cache expira chaves sem atividade há mais de duas janelas, limitando a
// memória sob churn de endereços sem precisar de loop de limpeza próprio.
type WindowStore struct {
	cache  *gocache.Cache
	window time.Duration
}

type windowEntry struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
}

type WindowOption func(*windowConfig)

type windowConfig struct {
	cleanupEvery time.Duration
}

func WithCleanupEvery(d time.Duration) WindowOption {
	return func(c *windowConfig) { c.cleanupEvery = d }
}

// NewWindowStore cria o store com a janela informada (<= 0 vira 1h).
func NewWindowStore(window time.Duration, opts ...WindowOption) *WindowStore {
	if window <= 0 {
		window = time.Hour
	}
	cfg := windowConfig{cleanupEvery: window / 2}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &WindowStore{
		cache:  gocache.New(2*window, cfg.cleanupEvery),
		window: window,
	}
}

func (s *WindowStore) Window() time.Duration { return s.window }

// Hit implementa domain.CounterStore.
//
// Se `now` caiu fora da janela corrente da entrada, a contagem zera e a
// janela recomeça em `now`. O incremento acontece sempre, admitida ou não:
// quem decide é a camada de application comparando com o limite.
func (s *WindowStore) Hit(key domain.Key, now time.Time) (int, time.Time) {
	e := s.entry(string(key))

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.windowStart.IsZero() || now.Sub(e.windowStart) >= s.window {
		e.windowStart = now
		e.count = 0
		// renova o TTL na virada da janela; cliente ativo nunca expira
		// no meio de uma janela (TTL = 2x janela).
		s.cache.Set(string(key), e, gocache.DefaultExpiration)
	}
	e.count++
	return e.count, e.windowStart.Add(s.window)
}

// Entries devolve quantas chaves estão vivas no cache (inclui expiradas
// ainda não varridas pelo janitor). Útil para testes e diagnóstico.
func (s *WindowStore) Entries() int { return s.cache.ItemCount() }

func (s *WindowStore) entry(key string) *windowEntry {
	for {
		if v, ok := s.cache.Get(key); ok {
			return v.(*windowEntry)
		}
		e := &windowEntry{}
		// Add falha se outra goroutine criou a entrada no meio; nesse
		// caso o loop relê a entrada vencedora.
		if err := s.cache.Add(key, e, gocache.DefaultExpiration); err == nil {
			return e
		}
	}
}
