package application

import (
	"math/rand/v2"
	"time"

	"truth-api/truth/domain"
)

// Selector sorteia um record do catálogo com viés por dia da semana.
//
// O sorteio é em dois estágios: primeiro um nível (low/medium/high) pela
// distribuição do dia, depois um record uniforme dentro do nível. Cada
// requisição sorteia de novo; nada é cacheado.
type Selector struct {
	Catalog *domain.Catalog
	Table   domain.WeightTable
}

// Select devolve um record para o dia informado. Nunca falha: se o dia não
// tem distribuição configurada, se o total dos pesos não é positivo ou se o
// nível sorteado não tem nenhum record, cai para sorteio uniforme sobre o
// catálogo inteiro.
func (s Selector) Select(day time.Weekday) domain.Record {
	dist, ok := s.Table[day]
	if !ok {
		return s.uniform()
	}

	total := 0.0
	for _, tier := range domain.Tiers {
		total += dist[tier]
	}
	if total <= 0 {
		return s.uniform()
	}

	// sorteio cumulativo sobre [0, total)
	r := rand.Float64() * total
	chosen := domain.Weight("")
	acc := 0.0
	for _, tier := range domain.Tiers {
		acc += dist[tier]
		if r < acc {
			chosen = tier
			break
		}
	}
	if chosen == "" {
		// borda de ponto flutuante: r encostou em total
		return s.uniform()
	}

	bucket := s.Catalog.Tier(chosen)
	if len(bucket) == 0 {
		return s.uniform()
	}
	return bucket[rand.IntN(len(bucket))]
}

func (s Selector) uniform() domain.Record {
	all := s.Catalog.All()
	return all[rand.IntN(len(all))]
}
