// Package domain define os tipos e contratos centrais da API de truths.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar as regras
// de seleção e de rate limit dos detalhes de infraestrutura.
package domain
