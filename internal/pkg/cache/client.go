package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client define el contrato de interfaz para el servicio de cache que
// consumen el almacén de sesiones y el rate limiter. Las capas de arriba
// dependen de esta interfaz, nunca del cliente Redis concreto.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	GetInt(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Incr(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss se retorna cuando la clave no existe en el cache.
var ErrCacheMiss = redis.Nil

// RedisClient es la implementación concreta de la interfaz Client, usando Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient crea y retorna una nueva instancia del cliente Redis.
// Esta función se llama en main.go.
func NewRedisClient(addr string) (Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, // e.g., "localhost:6379"
	})

	// PING de arranque: sin Redis no hay sesiones, así que fallamos temprano.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &RedisClient{rdb: rdb}, nil
}

// Get recupera el valor asociado a una clave.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// GetInt recupera el valor de una clave interpretado como entero.
func (c *RedisClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

// Set define un valor para una clave con un tiempo de expiración.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Incr incrementa atómicamente el contador almacenado en la clave.
func (c *RedisClient) Incr(ctx context.Context, key string) error {
	return c.rdb.Incr(ctx, key).Err()
}

// Delete elimina una clave del cache.
func (c *RedisClient) Delete(ctx context.Context, key string) error {
	// Comando DEL: retorna la cantidad de claves borradas (0 si no existe).
	return c.rdb.Del(ctx, key).Err()
}
