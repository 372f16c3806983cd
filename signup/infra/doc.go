// Package infra contém implementações concretas para os contratos do pacote domain.
//
//   - ClientStore: token bucket por cliente usando golang.org/x/time/rate
//   - SessionStore: um Gate por sessão do formulário, em memória, com expiração por inatividade
//   - SendSlots: semáforo que limita envios simultâneos
//   - MemoryStatsStore / RedisStatsStore: contadores de desfecho das tentativas
//   - SimulatedSender / HTTPSender / RedisSender: entrega da inscrição
package infra
