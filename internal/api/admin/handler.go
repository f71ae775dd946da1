package admin

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

// UserAdminService define el contrato de administración de usuarios que
// el Handler espera de la capa de servicio.
type UserAdminService interface {
	ListUsers(ctx context.Context, session *domain.Session) ([]domain.User, error)
	UpdateUser(ctx context.Context, session *domain.Session, update domain.UserUpdate) (domain.User, error)
}

// ReportService define el contrato del reporte financiero global.
type ReportService interface {
	Report(ctx context.Context, session *domain.Session) (domain.Report, error)
}

// Handler agrupa los métodos de Handler del área administrativa.
type Handler struct {
	Users   UserAdminService
	Reports ReportService
	Logger  logger.Logger
}

// NewHandler crea una nueva instancia del Handler, inyectando los servicios y el Logger.
func NewHandler(users UserAdminService, reports ReportService, log logger.Logger) *Handler {
	return &Handler{
		Users:   users,
		Reports: reports,
		Logger:  log,
	}
}

// handleServiceResponse procesa errores de servicio y envía respuestas estandarizadas.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
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

// UsersHandler atiende /admin/users: GET lista y PUT actualiza.
func (h *Handler) UsersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUsers(w, r)
	case http.MethodPut:
		h.updateUser(w, r)
	default:
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
	}
}

// listUsers atiende GET /admin/users.
// @Summary Lista todos los usuarios (solo ADMIN)
// @Description Devuelve todos los usuarios ordenados del más reciente al más antiguo. Nunca incluye credenciales.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.User "Listado de usuarios"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Failure 403 {object} domain.ErrorResponse "Requiere rol de Administrador"
// @Router /admin/users [get]
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	users, err := h.Users.ListUsers(ctx, currentSession)
	h.handleServiceResponse(w, r, users, err, http.StatusOK)
}

// updateUser atiende PUT /admin/users.
// @Summary Actualiza rol, nombre o teléfono de cualquier usuario (solo ADMIN)
// @Description Actualización parcial: los campos ausentes conservan su valor. No hay guarda de auto-democión.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param update body domain.UserUpdate true "Campos a actualizar"
// @Success 200 {object} domain.User "Usuario actualizado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Failure 403 {object} domain.ErrorResponse "Requiere rol de Administrador"
// @Failure 404 {object} domain.ErrorResponse "Usuario inexistente"
// @Router /admin/users [put]
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	var update domain.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	updated, err := h.Users.UpdateUser(ctx, currentSession, update)
	h.handleServiceResponse(w, r, updated, err, http.StatusOK)
}

// ReportsHandler atiende GET /admin/reports.
// @Summary Reporte financiero global (solo ADMIN)
// @Description Totales de ingresos, egresos y balance sobre todas las transacciones, más la lista completa anotada por fecha ascendente.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Report "Totales y listado completo"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Failure 403 {object} domain.ErrorResponse "Requiere rol de Administrador"
// @Router /admin/reports [get]
func (h *Handler) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	report, err := h.Reports.Report(ctx, currentSession)
	h.handleServiceResponse(w, r, report, err, http.StatusOK)
}
