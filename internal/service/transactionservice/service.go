package transactionservice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/authz"
	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
	"finanzas/internal/money"
	"finanzas/internal/pkg/logger"
)

// Service implementa domain.TransactionService: el libro de movimientos.
// Toda operación consulta primero al evaluador de políticas y solo toca
// el repositorio con una decisión Allow.
type Service struct {
	TransactionRepo domain.TransactionRepository
	Logger          logger.Logger
}

// NewService crea una nueva instancia del servicio, inyectando el repositorio.
func NewService(repo domain.TransactionRepository, log logger.Logger) *Service {
	return &Service{
		TransactionRepo: repo,
		Logger:          log,
	}
}

// Create registra un nuevo movimiento a nombre del usuario de la sesión.
//
// La validación de campos corre antes que la política: una petición con
// datos inválidos recibe 400 aunque venga sin sesión. El dueño siempre
// es el usuario autenticado; cualquier userId que mande el cliente se
// descarta (nunca confiar en identidad provista por el cliente).
func (s *Service) Create(ctx context.Context, session *domain.Session, request domain.CreateTransactionRequest) (domain.Transaction, error) {
	// 1. Validación de campos (funciones puras)
	if err := money.ValidateTransaction(request.Amount, request.Concept); err != nil {
		return domain.Transaction{}, err
	}
	if !request.Type.IsValid() {
		return domain.Transaction{}, apperror.NewValidationError("El tipo debe ser 'INGRESO' o 'EGRESO'.")
	}

	// 2. Política de acceso
	decision := authz.Evaluate(session, authz.CapCreateTransaction)
	if !decision.Allowed {
		return domain.Transaction{}, decision.Reason
	}

	// 3. Dueño forzado a la sesión
	if request.UserID != "" && request.UserID != session.UserID {
		s.Logger.Warn("Payload con userId ajeno descartado.", map[string]interface{}{
			"session_user": session.UserID,
			"claimed_user": request.UserID,
		})
	}

	date := time.Now()
	if request.Date != nil {
		date = *request.Date
	}

	transaction := domain.Transaction{
		Amount:  request.Amount,
		Concept: request.Concept,
		Type:    request.Type,
		Date:    date,
		UserID:  session.UserID,
	}

	// 4. Persistencia (única escritura lógica de la operación)
	return s.TransactionRepo.Save(ctx, transaction)
}

// List devuelve los movimientos visibles para la sesión, por fecha
// descendente. El alcance lo decide el evaluador: ADMIN ve todo (con
// dueño anotado), USER solo lo propio.
func (s *Service) List(ctx context.Context, session *domain.Session) ([]domain.Transaction, error) {
	decision := authz.Evaluate(session, authz.CapListTransactions)
	if !decision.Allowed {
		return nil, decision.Reason
	}

	filter := domain.TransactionFilter{OrderAsc: false}
	if decision.Scope == authz.ScopeOwn {
		filter.OwnerID = session.UserID
	}

	return s.TransactionRepo.FindAll(ctx, filter)
}

// Report arma el reporte financiero global: totales de ingresos, egresos
// y balance sobre TODO el conjunto de transacciones, más la lista
// completa anotada por fecha ascendente (el cliente la exporta a CSV).
// Solo ADMIN.
func (s *Service) Report(ctx context.Context, session *domain.Session) (domain.Report, error) {
	decision := authz.Evaluate(session, authz.CapViewReports)
	if !decision.Allowed {
		return domain.Report{}, decision.Reason
	}

	transactions, err := s.TransactionRepo.FindAll(ctx, domain.TransactionFilter{OrderAsc: true})
	if err != nil {
		return domain.Report{}, err
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, transaction := range transactions {
		switch transaction.Type {
		case domain.TypeIngreso:
			totalIncome = totalIncome.Add(transaction.Amount)
		case domain.TypeEgreso:
			totalExpense = totalExpense.Add(transaction.Amount)
		}
	}

	return domain.Report{
		Stats: domain.ReportStats{
			TotalIncome:  totalIncome,
			TotalExpense: totalExpense,
			Balance:      totalIncome.Sub(totalExpense),
		},
		Transactions: transactions,
	}, nil
}
