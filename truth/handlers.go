package truth

import (
	"net/http"
	"strings"
	"time"

	"truth-api/truth/application"
	"truth-api/truth/domain"
)

// API agrupa os handlers das rotas. O catálogo é read-only e o Selector
// sorteia por requisição, então a struct inteira é segura para uso
// concorrente sem lock.
type API struct {
	Selector application.Selector
	Catalog  *domain.Catalog
}

// Routes monta o mux da API.
//
// O catch-all cobre o 404 estruturado e o 405 de método errado em rota
// conhecida (com o catch-all registrado, o ServeMux nunca produz o 405
// dele mesmo: o fallback sempre casa).
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.handleDocs)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /truth", a.handleTruth)
	mux.HandleFunc("GET /truth/{id}", a.handleTruthByID)
	mux.HandleFunc("/", a.handleNotFound)
	return mux
}

func (a *API) handleTruth(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	rec := a.Selector.Select(now.Weekday())
	writeTruth(w, r, rec, now)
}

func (a *API) handleTruthByID(w http.ResponseWriter, r *http.Request) {
	rec, ok := a.Catalog.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "Truth not found.")
		return
	}
	writeTruth(w, r, rec, time.Now().UTC())
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (a *API) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && knownPath(r.URL.Path) {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed.")
		return
	}
	writeError(w, r, http.StatusNotFound, "not_found", "Not found.")
}

func knownPath(p string) bool {
	if p == "/" || p == "/health" || p == "/truth" {
		return true
	}
	return strings.HasPrefix(p, "/truth/")
}
