// Package application contém os casos de uso da API: seleção ponderada de
// um record por dia da semana, decisão de rate limit e aquisição de vaga
// de concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
package application
