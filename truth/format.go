package truth

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"truth-api/truth/domain"
)

// formatação rápida/consistente de valores numéricos em headers,
// sem puxar fmt só para isso.
func formatInt(v int) string { return strconv.Itoa(v) }

// wantsPlainText implementa a negociação de conteúdo: text/plain em
// qualquer lugar do Accept ganha; o padrão é JSON.
func wantsPlainText(accept string) bool {
	return strings.Contains(accept, "text/plain")
}

// dayString é o nome do dia da semana em minúsculo (UTC), como vai no
// campo `day` da resposta.
func dayString(t time.Time) string {
	return strings.ToLower(t.UTC().Weekday().String())
}

type truthPayload struct {
	Truth    string `json:"truth"`
	Category string `json:"category"`
	Day      string `json:"day"`
	Weight   string `json:"weight"`
	ID       string `json:"id"`
}

// writeTruth responde um record no formato negociado pelo Accept.
//
// Em texto puro o corpo é exatamente record.Text, sem embrulho nenhum.
// Em JSON o campo `day` vem do relógio do servidor, não do record.
func writeTruth(w http.ResponseWriter, r *http.Request, rec domain.Record, now time.Time) {
	if wantsPlainText(r.Header.Get("Accept")) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(rec.Text))
		return
	}

	writeJSON(w, http.StatusOK, truthPayload{
		Truth:    rec.Text,
		Category: rec.Category,
		Day:      dayString(now),
		Weight:   string(rec.Weight),
		ID:       rec.ID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
