// Package signup expõe o gate de inscrição via net/http.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos (sem dependência de net/http)
//   - application: casos de uso (validação, janela de tentativas, Gate, throttle, vagas)
//   - infra: implementações concretas (sessões, token bucket, semáforo, stats, senders)
//   - signup (este pacote): handler, middlewares HTTP, error boundary e tradução para status/JSON
//
// Fluxo de POST /api/subscribe:
//
//  1. Request ID + error boundary (panic vira página/JSON de fallback)
//  2. Throttle por cliente (IP/header/XFF) -> 429
//  3. Limite de envios simultâneos -> 503
//  4. Sessão (cookie atlas_session) -> Gate.Submit -> 200/400/409/429/502
package signup
