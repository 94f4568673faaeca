package redis

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/pkg/clients"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// SessionStore хранит записи сессий в Redis. Ключи уже содержат префикс session:.
type SessionStore struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
}

func NewSessionStore(client *clients.RedisClient, cfg *cfg.RedisCfg) *SessionStore {
	return &SessionStore{client: client, cfg: cfg}
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return "", false, nil
		}
		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return value, true, nil
}

// Set записывает значение с TTL SessionTTL. При нулевом TTL запись бессрочная.
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Client.Set(ctx, key, value, s.cfg.SessionTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Client.Del(ctx, key).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}
