// Package domain define os tipos e contratos do gate de inscrição (submission gate),
// do throttle por cliente e do limite de concorrência.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar regras de negócio
// de detalhes de infraestrutura.
package domain
