package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config almacena todas las configuraciones de la aplicación.
// Los campos cubren DB, cache de sesiones, seguridad y rate limiting.
type Config struct {
	// General
	Port        string
	Environment string
	LogLevel    string

	// Base de datos (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache / sesiones (Redis)
	RedisAddr string

	// Seguridad (JWT de sesión)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carga las configuraciones desde las variables de entorno.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. General
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Base de datos (PostgreSQL)
		// mustGetEnv garantiza que la aplicación no arranque sin credenciales de DB.
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache / sesiones (Redis)
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// 4. Seguridad (JWT)
		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		// 5. Rate limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	return cfg
}

// Funciones auxiliares

// getEnv lee la variable de entorno o retorna un valor por defecto.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lee la variable de entorno; fatal si no está presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Error de configuración: la variable de entorno %s debe estar definida.", key)
	return ""
}

// getDurationEnv lee una variable de entorno numérica y la retorna como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: el valor de %s ('%s') no es un entero válido. Usando el default (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

// getIntEnv lee una variable de entorno numérica y la retorna como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: el valor de %s ('%s') no es un entero válido. Usando el default (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
