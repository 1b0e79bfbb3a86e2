package truth

import "net/http"

// StandardHeaders aplica em toda resposta (sucesso ou erro) os headers
// obrigatórios da API:
//
//   - Cache-Control: no-store — a resposta é sorteada por requisição e
//     nunca pode ser guardada por cache nenhum
//   - Vary: Accept — o corpo muda com a negociação de conteúdo
//   - headers de segurança básicos
func StandardHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-store")
		h.Set("Vary", "Accept")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
