// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - LoadCatalog: carga e validação do arquivo JSON de truths
//   - WindowStore: contador de janela fixa por chave com expiração por TTL
//   - Throttle: guarda global de sobrecarga usando golang.org/x/time/rate
//   - RedisStatsStore / MemoryStatsStore: estatísticas best-effort
package infra
