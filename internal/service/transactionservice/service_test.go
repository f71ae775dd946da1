package transactionservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
	"finanzas/internal/pkg/logger"
	"finanzas/internal/service/transactionservice"
)

// MockTransactionRepository es una implementación mock de la interfaz TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Save(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	args := m.Called(ctx, transaction)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func userSession() *domain.Session {
	return &domain.Session{ID: "s1", UserID: "u1", Email: "user@test.com", Role: domain.RoleUser}
}

func adminSession() *domain.Session {
	return &domain.Session{ID: "s2", UserID: "a1", Email: "admin@test.com", Role: domain.RoleAdmin}
}

// TestCreate_ForcesOwnerFromSession verifica que un userId ajeno en el
// payload se ignora: el dueño siempre es el usuario de la sesión.
func TestCreate_ForcesOwnerFromSession(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx domain.Transaction) bool {
		return tx.UserID == "u1"
	})).Return(domain.Transaction{ID: "t1", UserID: "u1"}, nil)

	request := domain.CreateTransactionRequest{
		Amount:  decimal.NewFromInt(1000),
		Concept: "Pago",
		Type:    domain.TypeIngreso,
		UserID:  "otro-usuario", // falsificado a propósito
	}

	created, err := svc.Create(context.Background(), userSession(), request)

	assert.NoError(t, err)
	assert.Equal(t, "u1", created.UserID)
	mockRepo.AssertExpectations(t)
}

// TestCreate_DefaultsDateToNow verifica que la fecha omitida se completa
// con el reloj del servidor.
func TestCreate_DefaultsDateToNow(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	before := time.Now()
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx domain.Transaction) bool {
		return !tx.Date.Before(before) && !tx.Date.After(time.Now())
	})).Return(domain.Transaction{ID: "t1"}, nil)

	request := domain.CreateTransactionRequest{
		Amount:  decimal.NewFromInt(500),
		Concept: "Sin fecha",
		Type:    domain.TypeEgreso,
	}

	_, err := svc.Create(context.Background(), userSession(), request)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestCreate_ValidationRunsBeforePolicy verifica el orden de evaluación:
// con datos inválidos la respuesta es 400 incluso sin sesión.
func TestCreate_ValidationRunsBeforePolicy(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	request := domain.CreateTransactionRequest{
		Amount:  decimal.Zero,
		Concept: "Pago",
		Type:    domain.TypeIngreso,
	}

	_, err := svc.Create(context.Background(), nil, request)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.EqualError(t, err, "El monto debe ser mayor a 0")
	mockRepo.AssertNotCalled(t, "Save")
}

// TestCreate_InvalidType verifica el rechazo de tipos fuera de los dos literales.
func TestCreate_InvalidType(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	request := domain.CreateTransactionRequest{
		Amount:  decimal.NewFromInt(100),
		Concept: "Pago",
		Type:    "TRANSFERENCIA",
	}

	_, err := svc.Create(context.Background(), userSession(), request)

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save")
}

// TestCreate_Anonymous_Unauthorized verifica que con datos válidos pero
// sin sesión la respuesta es 401 y nada llega al repositorio.
func TestCreate_Anonymous_Unauthorized(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	request := domain.CreateTransactionRequest{
		Amount:  decimal.NewFromInt(100),
		Concept: "Pago",
		Type:    domain.TypeIngreso,
	}

	_, err := svc.Create(context.Background(), nil, request)

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	mockRepo.AssertNotCalled(t, "Save")
}

// TestList_UserScope verifica que un USER solo lista lo propio, por
// fecha descendente.
func TestList_UserScope(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	expected := []domain.Transaction{{ID: "t1", UserID: "u1"}}
	mockRepo.On("FindAll", mock.Anything, domain.TransactionFilter{OwnerID: "u1", OrderAsc: false}).
		Return(expected, nil)

	transactions, err := svc.List(context.Background(), userSession())

	assert.NoError(t, err)
	assert.Equal(t, expected, transactions)
	mockRepo.AssertExpectations(t)
}

// TestList_AdminScope verifica que el ADMIN lista todo, sin filtro de dueño.
func TestList_AdminScope(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	expected := []domain.Transaction{
		{ID: "t1", UserID: "u1", Owner: &domain.TransactionOwner{Name: "User", Email: "user@test.com"}},
		{ID: "t2", UserID: "u2", Owner: &domain.TransactionOwner{Name: "Otro", Email: "otro@test.com"}},
	}
	mockRepo.On("FindAll", mock.Anything, domain.TransactionFilter{OwnerID: "", OrderAsc: false}).
		Return(expected, nil)

	transactions, err := svc.List(context.Background(), adminSession())

	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	mockRepo.AssertExpectations(t)
}

// TestList_Anonymous_Unauthorized verifica el 401 para peticiones anónimas.
func TestList_Anonymous_Unauthorized(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	_, err := svc.List(context.Background(), nil)

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	mockRepo.AssertNotCalled(t, "FindAll")
}

// TestReport_Totals verifica los totales del reporte sobre el conjunto
// completo, pedido por fecha ascendente.
func TestReport_Totals(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	transactions := []domain.Transaction{
		{ID: "t1", Type: domain.TypeIngreso, Amount: decimal.NewFromInt(1000)},
		{ID: "t2", Type: domain.TypeEgreso, Amount: decimal.NewFromInt(400)},
		{ID: "t3", Type: domain.TypeIngreso, Amount: decimal.NewFromInt(200)},
	}
	mockRepo.On("FindAll", mock.Anything, domain.TransactionFilter{OwnerID: "", OrderAsc: true}).
		Return(transactions, nil)

	report, err := svc.Report(context.Background(), adminSession())

	assert.NoError(t, err)
	assert.True(t, report.Stats.TotalIncome.Equal(decimal.NewFromInt(1200)), "totalIncome = %s", report.Stats.TotalIncome)
	assert.True(t, report.Stats.TotalExpense.Equal(decimal.NewFromInt(400)), "totalExpense = %s", report.Stats.TotalExpense)
	assert.True(t, report.Stats.Balance.Equal(decimal.NewFromInt(800)), "balance = %s", report.Stats.Balance)
	assert.Len(t, report.Transactions, 3)
	mockRepo.AssertExpectations(t)
}

// TestReport_UserForbidden verifica que un USER recibe 403 (no 401) al
// pedir el reporte.
func TestReport_UserForbidden(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	_, err := svc.Report(context.Background(), userSession())

	assert.IsType(t, &apperror.ForbiddenError{}, err)
	mockRepo.AssertNotCalled(t, "FindAll")
}

// TestReport_Anonymous_Unauthorized verifica el 401 anónimo también en reportes.
func TestReport_Anonymous_Unauthorized(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockLogger := logger.NewLogger("fatal")

	svc := transactionservice.NewService(mockRepo, mockLogger)

	_, err := svc.Report(context.Background(), nil)

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	mockRepo.AssertNotCalled(t, "FindAll")
}
