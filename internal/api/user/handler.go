package user

import (
	"context"
	"encoding/json"
	"net/http"

	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
	"finanzas/internal/pkg/logger"
	"finanzas/internal/pkg/middleware"
)

// UserService define el contrato que el Handler espera de la capa de servicio.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
	Logout(ctx context.Context, session *domain.Session) error
	GetOwnProfile(ctx context.Context, session *domain.Session) (domain.User, error)
	UpdateOwnProfile(ctx context.Context, session *domain.Session, update domain.ProfileUpdate) (domain.User, error)
	DeleteOwnAccount(ctx context.Context, session *domain.Session) error
}

// LoginRequest representa el payload de entrada para el login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler agrupa los métodos de Handler del usuario.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler crea una nueva instancia del Handler, inyectando el Service y el Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
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
		if data != nil {
			json.NewEncoder(w).Encode(data)
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	// Log solo de errores graves
	if status >= 500 {
		h.Logger.Error("Error interno en el servicio de usuario:", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// RegisterHandler atiende POST /register.
// @Summary Registra un nuevo usuario
// @Description Crea un nuevo usuario con credenciales locales. La política vigente asigna rol ADMIN a todo registro nuevo.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciales de registro"
// @Success 201 {object} domain.User "Usuario creado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email ya registrado"
// @Router /register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var registration domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	newUser, err := h.Service.Register(ctx, registration)
	h.handleServiceResponse(w, r, newUser, err, http.StatusCreated)
}

// LoginHandler atiende POST /login.
// @Summary Autentica un usuario y emite un JWT de sesión
// @Tags users
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciales del usuario"
// @Success 200 {object} map[string]string "Token JWT emitido"
// @Failure 401 {object} domain.ErrorResponse "Credenciales inválidas"
// @Router /login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	tokenString, err := h.Service.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{"token": tokenString}, nil, http.StatusOK)
}

// LogoutHandler atiende POST /logout.
// @Summary Revoca la sesión actual
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Sesión cerrada"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Router /logout [post]
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	if err := h.Service.Logout(ctx, currentSession); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{"message": "Sesión cerrada"}, nil, http.StatusOK)
}

// ProfileHandler atiende /user/profile: GET devuelve el perfil propio y
// PUT lo actualiza.
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.updateProfile(w, r)
	default:
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
	}
}

// getProfile atiende GET /user/profile.
// @Summary Devuelve el perfil del usuario de la sesión
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User "Perfil propio"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Router /user/profile [get]
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	profile, err := h.Service.GetOwnProfile(ctx, currentSession)
	h.handleServiceResponse(w, r, profile, err, http.StatusOK)
}

// updateProfile atiende PUT /user/profile.
// @Summary Actualiza nombre y teléfono del propio usuario
// @Description El rol y el email nunca son actualizables por este camino.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param update body domain.ProfileUpdate true "Campos del perfil"
// @Success 200 {object} map[string]interface{} "Mensaje y usuario actualizado"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Router /user/profile [put]
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	updated, err := h.Service.UpdateOwnProfile(ctx, currentSession, update)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Datos actualizados",
		"user":    updated,
	}, nil, http.StatusOK)
}

// DeleteAccountHandler atiende DELETE /user.
// @Summary Elimina la cuenta del usuario de la sesión
// @Description Irreversible. Las transacciones del usuario se eliminan en cascada y la sesión queda revocada.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Cuenta eliminada"
// @Failure 401 {object} domain.ErrorResponse "Sin sesión válida"
// @Router /user [delete]
func (h *Handler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	currentSession := middleware.GetSessionFromContext(ctx)

	if err := h.Service.DeleteOwnAccount(ctx, currentSession); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{"message": "Cuenta eliminada correctamente"}, nil, http.StatusOK)
}
