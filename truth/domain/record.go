package domain

import "time"

// Weight é o nível de importância de um record, usado para enviesar a
// seleção por dia da semana.
type Weight string

const (
	WeightLow    Weight = "low"
	WeightMedium Weight = "medium"
	WeightHigh   Weight = "high"
)

// Tiers lista os níveis em ordem fixa. A ordem importa para o sorteio
// cumulativo do Selector ser determinístico dado o mesmo valor aleatório.
var Tiers = []Weight{WeightLow, WeightMedium, WeightHigh}

func (w Weight) Valid() bool {
	switch w {
	case WeightLow, WeightMedium, WeightHigh:
		return true
	}
	return false
}

// Record é um item do conjunto estático servido pela API.
// Imutável depois do carregamento.
type Record struct {
	ID       string
	Text     string
	Category string
	Weight   Weight
}

// TierWeights é a distribuição de probabilidade sobre os níveis para um dia.
// Não precisa estar normalizada; o Selector normaliza na hora do sorteio.
type TierWeights map[Weight]float64

// WeightTable mapeia dia da semana -> distribuição sobre níveis.
type WeightTable map[time.Weekday]TierWeights

// Catalog é o conjunto de records carregado no startup, com índices por id
// e por nível. Read-only depois de construído: não precisa de lock.
type Catalog struct {
	records []Record
	byID    map[string]Record
	byTier  map[Weight][]Record
}

func NewCatalog(records []Record) *Catalog {
	c := &Catalog{
		records: records,
		byID:    make(map[string]Record, len(records)),
		byTier:  make(map[Weight][]Record),
	}
	for _, rec := range records {
		c.byID[rec.ID] = rec
		c.byTier[rec.Weight] = append(c.byTier[rec.Weight], rec)
	}
	return c
}

func (c *Catalog) All() []Record { return c.records }

func (c *Catalog) Tier(w Weight) []Record { return c.byTier[w] }

func (c *Catalog) Get(id string) (Record, bool) {
	rec, ok := c.byID[id]
	return rec, ok
}

func (c *Catalog) Len() int { return len(c.records) }
