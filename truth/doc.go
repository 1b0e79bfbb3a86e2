// Package truth fornece os adapters HTTP (net/http) da API de truths:
// handlers, middlewares e negociação de conteúdo.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (seleção ponderada, decisão allow/deny,
//     acquire/timeout) sem net/http
//   - infra: implementações concretas (carga do catálogo, janela fixa,
//     token bucket, stats), detalhes de infraestrutura
//   - truth (este pacote): handlers + middlewares + extração de chave +
//     tradução para status/headers/corpos JSON
//
// Fluxo de uma requisição a /truth:
//
//  1. Middlewares de request id, log e headers padrão (Cache-Control,
//     Vary, segurança)
//  2. Guardas opcionais de sobrecarga (token bucket global, concorrência)
//  3. Rate limit de janela fixa por endereço remoto; bloqueado responde
//     429 com corpo JSON estruturado e Retry-After
//  4. Seleção ponderada pelo dia da semana e formatação (JSON ou texto)
package truth
