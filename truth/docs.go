package truth

import "net/http"

// página estática de documentação servida em GET /.
const docsHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Truth API</title>
  <style>
    body { font-family: sans-serif; max-width: 640px; margin: 40px auto; padding: 0 16px; color: #222; }
    code { background: #f4f4f4; padding: 2px 6px; border-radius: 4px; }
    .endpoint { border-left: 4px solid #667eea; padding: 8px 12px; margin: 12px 0; background: #fafafa; }
  </style>
</head>
<body>
  <h1>Truth API</h1>
  <p>One weighted-random truth per request, biased by day of week.</p>
  <div class="endpoint"><code>GET /truth</code> — a random truth.
    Default is JSON; send <code>Accept: text/plain</code> for the bare text.
    Rate limited per client address.</div>
  <div class="endpoint"><code>GET /truth/{id}</code> — a specific truth by id.</div>
  <div class="endpoint"><code>GET /health</code> — liveness check, never rate limited.</div>
  <p>Example:</p>
  <pre><code>curl -H 'Accept: application/json' /truth</code></pre>
</body>
</html>
`

func (a *API) handleDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(docsHTML))
}
