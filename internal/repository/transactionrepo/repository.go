package transactionrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
	"finanzas/internal/pkg/logger"
)

// TransactionRepository implementa domain.TransactionRepository sobre PostgreSQL.
type TransactionRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTransactionRepository crea una nueva instancia del repositorio, inyectando el DB.
func NewTransactionRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *TransactionRepository {
	return &TransactionRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save inserta un nuevo movimiento. Una transacción nunca se actualiza:
// este INSERT es la única escritura del ciclo de vida.
func (r *TransactionRepository) Save(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	transaction.ID = uuid.NewString()

	insertSQL := `INSERT INTO transactions (id, amount, concept, type, date, user_id)
	              VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(
		ctxTimeout,
		insertSQL,
		transaction.ID,
		transaction.Amount,
		transaction.Concept,
		transaction.Type,
		transaction.Date,
		transaction.UserID,
	)

	if err != nil {
		r.logger.Error("Falla al insertar transacción en el DB.", err)
		return domain.Transaction{}, apperror.NewDBError("failed to insert transaction", err)
	}

	r.logger.Info("Transacción guardada en el repositorio.", map[string]interface{}{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"type":           transaction.Type,
	})
	return transaction, nil
}

// FindAll lista movimientos según el filtro de alcance. Cada fila viene
// anotada con nombre y email del dueño (JOIN con users); el orden por
// fecha lo decide el filtro: descendente para el listado del día a día,
// ascendente para los reportes.
func (r *TransactionRepository) FindAll(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT t.id, t.amount, t.concept, t.type, t.date, t.user_id, u.name, u.email
	          FROM transactions t
	          JOIN users u ON u.id = t.user_id`

	args := []interface{}{}
	if filter.OwnerID != "" {
		query += ` WHERE t.user_id = $1`
		args = append(args, filter.OwnerID)
	}

	if filter.OrderAsc {
		query += ` ORDER BY t.date ASC`
	} else {
		query += ` ORDER BY t.date DESC`
	}

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falla al listar transacciones en el DB.", err)
		return nil, apperror.NewDBError("failed to list transactions", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var transaction domain.Transaction
		var owner domain.TransactionOwner

		if err := rows.Scan(
			&transaction.ID,
			&transaction.Amount,
			&transaction.Concept,
			&transaction.Type,
			&transaction.Date,
			&transaction.UserID,
			&owner.Name,
			&owner.Email,
		); err != nil {
			r.logger.Error("Falla al escanear fila de transacción.", err)
			return nil, apperror.NewDBError("failed to scan transaction row", err)
		}

		transaction.Owner = &owner
		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate transaction rows", err)
	}

	return transactions, nil
}
