package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType es un tipo string para el tipo de movimiento.
type TransactionType string

// Los dos únicos valores válidos. Son literales del dominio original
// y forman parte del contrato de la API, por eso no se traducen.
const (
	TypeIngreso TransactionType = "INGRESO"
	TypeEgreso  TransactionType = "EGRESO"
)

// IsValid indica si el tipo es uno de los dos literales permitidos.
func (t TransactionType) IsValid() bool {
	return t == TypeIngreso || t == TypeEgreso
}

// TransactionOwner es la anotación del dueño que acompaña a cada
// transacción en los listados (nombre y email, nunca más que eso).
type TransactionOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Transaction representa un movimiento financiero (ingreso o egreso).
// Una transacción nunca se modifica después de creada: solo nace por la
// operación de creación y muere en cascada cuando se borra su dueño.
type Transaction struct {
	ID      string            `json:"id"`
	Amount  decimal.Decimal   `json:"amount"`
	Concept string            `json:"concept"`
	Type    TransactionType   `json:"type"`
	Date    time.Time         `json:"date"`
	UserID  string            `json:"userId"`
	Owner   *TransactionOwner `json:"user,omitempty"` // solo en listados
}

// CreateTransactionRequest es el payload de entrada para crear un
// movimiento. Si el cliente manda un userId propio se ignora: el dueño
// siempre es el usuario de la sesión.
type CreateTransactionRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Concept string          `json:"concept"`
	Type    TransactionType `json:"type"`
	Date    *time.Time      `json:"date,omitempty"`
	UserID  string          `json:"userId,omitempty"` // se descarta siempre
}

// TransactionFilter define el alcance de un listado de transacciones.
type TransactionFilter struct {
	// OwnerID limita el listado a un solo dueño. Vacío = todas.
	OwnerID string
	// OrderAsc ordena por fecha ascendente (reportes). El listado del
	// día a día usa descendente.
	OrderAsc bool
}

// ReportStats son los totales agregados del reporte financiero.
type ReportStats struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// Report es la respuesta completa del reporte: totales más la lista
// completa anotada (el cliente la usa para exportar a CSV).
type Report struct {
	Stats        ReportStats   `json:"stats"`
	Transactions []Transaction `json:"transactions"`
}

// TransactionRepository define el contrato de persistencia de movimientos.
type TransactionRepository interface {
	Save(ctx context.Context, transaction Transaction) (Transaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
}

// TransactionService define el contrato de lógica de negocio del libro
// de movimientos. Todas las operaciones reciben la sesión (o nil si la
// petición es anónima) y consultan al evaluador de políticas antes de
// tocar el repositorio.
type TransactionService interface {
	Create(ctx context.Context, session *Session, request CreateTransactionRequest) (Transaction, error)
	List(ctx context.Context, session *Session) ([]Transaction, error)
	Report(ctx context.Context, session *Session) (Report, error)
}
