package truth

import (
	"net"
	"net/http"
	"strings"

	"truth-api/truth/domain"
)

// ClientKey deriva a chave de rate limit exclusivamente do endereço remoto
// da conexão.
//
// Headers encaminhados por proxy (X-Forwarded-For, X-Real-IP etc.) são
// ignorados de propósito: qualquer cliente pode forjá-los e trocar de chave
// a cada requisição.
func ClientKey(r *http.Request) domain.Key {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return domain.Key(host)
	}
	if r.RemoteAddr != "" {
		return domain.Key(r.RemoteAddr)
	}
	return domain.Key("unknown")
}
