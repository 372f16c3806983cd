package infra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samanthaatlas/atlas-V10/signup/domain"

	"github.com/redis/go-redis/v9"
)

// RedisSender enfileira a inscrição (JSON) numa lista do Redis para um worker externo.
type RedisSender struct {
	rdb  redis.Cmdable
	list string
}

func NewRedisSender(rdb redis.Cmdable, list string) *RedisSender {
	if list == "" {
		list = "signup:subscriptions"
	}
	return &RedisSender{rdb: rdb, list: list}
}

func (s *RedisSender) Send(ctx context.Context, sub domain.Subscription) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode subscription: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.list, body).Err(); err != nil {
		return fmt.Errorf("enqueue subscription: %w", err)
	}
	return nil
}
