package truth

import "net/http"

// errorBody é o corpo padrão de todo erro por requisição. Nunca carrega
// stack trace nem detalhe interno; o request_id serve para correlacionar
// com o log.
type errorBody struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	RequestID         string `json:"request_id"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorBody{
		Error:     code,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	})
}

// writeRateLimited responde o 429 estruturado com o Retry-After em
// segundos (mínimo 1: devolver 0 convidaria retry imediato).
func writeRateLimited(w http.ResponseWriter, r *http.Request, retryAfterSeconds int) {
	if retryAfterSeconds < 1 {
		retryAfterSeconds = 1
	}
	w.Header().Set("Retry-After", formatInt(retryAfterSeconds))
	writeJSON(w, http.StatusTooManyRequests, errorBody{
		Error:             "rate_limited",
		Message:           "Too many requests.",
		RequestID:         RequestIDFrom(r.Context()),
		RetryAfterSeconds: retryAfterSeconds,
	})
}
