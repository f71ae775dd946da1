package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
	"finanzas/internal/pkg/logger"
	"finanzas/internal/pkg/middleware"
)

// TransactionService define el contrato que el Handler espera de la capa
// de servicio.
type TransactionService interface {
	Create(ctx context.Context, session *domain.Session, request domain.CreateTransactionRequest) (domain.Transaction, error)
	List(ctx context.Context, session *domain.Session) ([]domain.Transaction, error)
}

// Handler agrupa los métodos de Handler de transacciones.
type Handler struct {
	Service TransactionService
	Logger  logger.Logger
}

// NewHandler crea una nueva instancia del Handler, inyectando el Service y el Logger.
func NewHandler(svc TransactionService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse procesa errores de servicio y envía respuestas estandarizadas.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)

		h.Logger.Info("Petición completada con éxito", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})

		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falla al codificar el JSON de respuesta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Error de servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Petición rechazada con status %d. Categoría: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// TransactionsHandler atiende /transactions: GET lista y POST crea.
func (h *Handler) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTransactions(w, r)
	case http.MethodPost:
		h.createTransaction(w, r)
	default:
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
	}
}

// listTransactions atiende GET /transactions.
// @Summary Lista las transacciones visibles para la sesión
// @Description ADMIN recibe todas las transacciones (con dueño anotado); USER solo las propias. Orden por fecha descendente.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Transaction "Listado de transacciones"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Router /transactions [get]
func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	transactions, err := h.Service.List(ctx, currentSession)
	h.handleServiceResponse(w, r, transactions, err, http.StatusOK)
}

// createTransaction atiende POST /transactions.
// @Summary Crea una transacción a nombre del usuario de la sesión
// @Description Valida monto, concepto y tipo; el dueño siempre es el usuario autenticado (un userId ajeno en el payload se ignora).
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body domain.CreateTransactionRequest true "Movimiento a registrar"
// @Success 201 {object} domain.Transaction "Transacción creada"
// @Failure 400 {object} domain.ErrorResponse "Campos inválidos"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Router /transactions [post]
func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	var request domain.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	created, err := h.Service.Create(ctx, currentSession, request)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}
