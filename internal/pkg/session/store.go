// Package session implementa el almacén de sesiones revocables sobre el
// cache Redis. El JWT lleva el identificador de sesión (jti); mientras
// la clave exista en Redis la sesión está viva, y logout o el borrado de
// la cuenta la revocan eliminando la clave.
package session

import (
	"context"
	"time"

	"finanzas/internal/pkg/cache"
)

// Store define el contrato del almacén de sesiones.
type Store interface {
	Put(ctx context.Context, sessionID string, userID string, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// RedisStore implementa Store sobre la interfaz cache.Client.
type RedisStore struct {
	cache cache.Client
}

// NewRedisStore crea el almacén de sesiones. Se llama en main.go.
func NewRedisStore(cacheClient cache.Client) *RedisStore {
	return &RedisStore{cache: cacheClient}
}

func key(sessionID string) string {
	return "session:" + sessionID
}

// Put registra una sesión viva. El valor es el id del usuario dueño,
// útil para inspección operativa; la revocación solo mira la clave.
func (s *RedisStore) Put(ctx context.Context, sessionID string, userID string, ttl time.Duration) error {
	return s.cache.Set(ctx, key(sessionID), userID, ttl)
}

// Exists indica si la sesión sigue viva (no revocada ni expirada).
func (s *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.cache.Get(ctx, key(sessionID))
	if err == cache.ErrCacheMiss {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke elimina la sesión. Borrar una sesión inexistente no es error.
func (s *RedisStore) Revoke(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, key(sessionID))
}
