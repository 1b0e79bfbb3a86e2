package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"truth-api/truth/domain"
)

// CatalogOptions controla a validação da carga do arquivo de truths.
type CatalogOptions struct {
	// MinCount é o tamanho mínimo aceitável do conjunto. Valores <= 0
	// equivalem a 1 (um conjunto vazio nunca é aceito).
	MinCount int
	// NormalizeDedupe rejeita dois records cujo texto normalizado
	// (minúsculo, sem espaços nas pontas) seja igual.
	NormalizeDedupe bool
}

type recordFile struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Weight   string `json:"weight"`
}

// LoadCatalog lê o arquivo JSON de truths (array de records), valida as
// invariantes do conjunto e devolve o catálogo indexado.
//
// Qualquer violação é erro fatal de configuração: o processo não deve
// servir tráfego com um conjunto corrompido ou vazio.
func LoadCatalog(path string, opts CatalogOptions) (*domain.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("truths: read %s: %w", path, err)
	}

	var entries []recordFile
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("truths: parse %s: %w", path, err)
	}

	minCount := opts.MinCount
	if minCount <= 0 {
		minCount = 1
	}
	if len(entries) < minCount {
		return nil, fmt.Errorf("truths: %d records, minimum is %d", len(entries), minCount)
	}

	seenIDs := make(map[string]struct{}, len(entries))
	seenTexts := make(map[string]struct{}, len(entries))
	records := make([]domain.Record, 0, len(entries))

	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("truths: record %d has empty id", i)
		}
		if _, dup := seenIDs[e.ID]; dup {
			return nil, fmt.Errorf("truths: duplicate id %q", e.ID)
		}
		seenIDs[e.ID] = struct{}{}

		if strings.TrimSpace(e.Text) == "" {
			return nil, fmt.Errorf("truths: record %q has empty text", e.ID)
		}
		if e.Category == "" {
			return nil, fmt.Errorf("truths: record %q has empty category", e.ID)
		}

		w := domain.Weight(e.Weight)
		if !w.Valid() {
			return nil, fmt.Errorf("truths: record %q has invalid weight %q", e.ID, e.Weight)
		}

		if opts.NormalizeDedupe {
			norm := strings.ToLower(strings.TrimSpace(e.Text))
			if _, dup := seenTexts[norm]; dup {
				return nil, fmt.Errorf("truths: record %q duplicates the text of another record", e.ID)
			}
			seenTexts[norm] = struct{}{}
		}

		records = append(records, domain.Record{
			ID:       e.ID,
			Text:     e.Text,
			Category: e.Category,
			Weight:   w,
		})
	}

	return domain.NewCatalog(records), nil
}
