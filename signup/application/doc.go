// Package application contém os casos de uso do formulário de inscrição:
// validação do e-mail, janela de tentativas, orquestração do envio (Gate),
// throttle por cliente e limite de concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Gate.Submit(ctx, email) retorna nil ou um *domain.Error com a mensagem a exibir.
package application
