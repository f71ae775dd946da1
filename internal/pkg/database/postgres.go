package database

import (
	"database/sql"
	"fmt"
	"time"

	// Driver pq para PostgreSQL. Se registra vía side effect del import.
	_ "github.com/lib/pq"
)

// NewPostgresDB inicializa y configura el pool de conexiones con PostgreSQL.
// Retorna la conexión *sql.DB lista para inyectarse en los repositorios.
func NewPostgresDB(dataSourceName string) (*sql.DB, error) {

	// 1. Abrir la conexión (todavía sin usar el pool)
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falla al abrir la conexión con el DB: %w", err)
	}

	// 2. Probar la conexión de inmediato
	// Garantiza que las credenciales y el servidor son correctos.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("falla en el ping inicial al DB: %w", err)
	}

	// 3. Configuración del connection pool
	// MaxOpenConns debe ajustarse al límite del servidor y al tráfico esperado.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	// Las conexiones mueren a los 5 minutos (evita problemas de red/firewall).
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return db, nil
}
