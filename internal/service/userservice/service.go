package userservice

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"finanzas/internal/authz"
	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
	"finanzas/internal/pkg/logger"
	"finanzas/internal/pkg/session"
	"finanzas/internal/pkg/token"
)

// Service implementa domain.UserService: registro, login y la
// administración de usuarios protegida por el evaluador de políticas.
type Service struct {
	UserRepo domain.UserRepository
	TokenSvc token.TokenService
	Sessions session.Store
	Logger   logger.Logger
}

// NewService crea una nueva instancia del UserService, inyectando el
// repositorio, el servicio de tokens y el almacén de sesiones.
func NewService(repo domain.UserRepository, tokenSvc token.TokenService, sessions session.Store, log logger.Logger) *Service {
	return &Service{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		Sessions: sessions,
		Logger:   log,
	}
}

// Register registra un nuevo usuario con credenciales locales.
// Todo usuario nuevo nace con rol ADMIN: es la política vigente de este
// despliegue (ver DESIGN.md antes de cambiarla).
func (s *Service) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	// 1. Validación básica
	if registration.Email == "" || registration.Password == "" {
		return domain.User{}, apperror.NewValidationError("Email y contraseña son obligatorios.")
	}

	// 2. Hash de la contraseña
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falla al generar el hash de la contraseña.", err)
	}

	newUser := domain.User{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleAdmin,
	}

	// 3. Persistencia. El repositorio traduce la violación de unicidad
	// del email a un ConflictError (409).
	return s.UserRepo.Save(ctx, newUser)
}

// Login autentica al usuario, registra la sesión revocable y emite el JWT.
func (s *Service) Login(ctx context.Context, email string, password string) (string, error) {
	// 1. Validación básica
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email y contraseña son obligatorios.")
	}

	// 2. Buscar al usuario por email
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// Un 404 se responde como 401 para no dar pistas a un atacante.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Credenciales inválidas.")
		}
		return "", err
	}

	// 3. Comparar contraseñas
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.NewUnauthorizedError("Credenciales inválidas.")
	}

	// 4. Emitir JWT y registrar la sesión en el almacén
	tokenString, sessionID, err := s.TokenSvc.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falla al generar el token de autenticación.", err)
	}

	if err := s.Sessions.Put(ctx, sessionID, user.ID, s.TokenSvc.Expiry()); err != nil {
		return "", apperror.NewInternalError("Falla al registrar la sesión.", err)
	}

	s.Logger.Info("Sesión iniciada.", map[string]interface{}{"user_id": user.ID})
	return tokenString, nil
}

// Logout revoca la sesión actual. El JWT seguirá siendo válido
// criptográficamente hasta su expiración, pero el resolver dejará de
// aceptarlo porque la entrada del almacén ya no existe.
func (s *Service) Logout(ctx context.Context, currentSession *domain.Session) error {
	if currentSession == nil {
		return apperror.NewUnauthorizedError("No autorizado")
	}
	return s.Sessions.Revoke(ctx, currentSession.ID)
}

// GetOwnProfile devuelve el perfil del usuario de la sesión.
func (s *Service) GetOwnProfile(ctx context.Context, currentSession *domain.Session) (domain.User, error) {
	decision := authz.Evaluate(currentSession, authz.CapViewOwnProfile)
	if !decision.Allowed {
		return domain.User{}, decision.Reason
	}

	return s.UserRepo.FindByID(ctx, currentSession.UserID)
}

// ListUsers devuelve todos los usuarios, del más reciente al más antiguo.
// Solo ADMIN.
func (s *Service) ListUsers(ctx context.Context, currentSession *domain.Session) ([]domain.User, error) {
	decision := authz.Evaluate(currentSession, authz.CapListUsers)
	if !decision.Allowed {
		return nil, decision.Reason
	}

	return s.UserRepo.FindAll(ctx)
}

// UpdateUser aplica una actualización parcial (rol, nombre, teléfono)
// sobre cualquier usuario. Solo ADMIN. No hay guarda de auto-democión:
// un ADMIN puede quitarse su propio rol, incluso siendo el último.
func (s *Service) UpdateUser(ctx context.Context, currentSession *domain.Session, update domain.UserUpdate) (domain.User, error) {
	decision := authz.Evaluate(currentSession, authz.CapUpdateUser)
	if !decision.Allowed {
		return domain.User{}, decision.Reason
	}

	if update.UserID == "" {
		return domain.User{}, apperror.NewValidationError("El userId es obligatorio.")
	}
	if update.Role != nil && *update.Role != domain.RoleAdmin && *update.Role != domain.RoleUser {
		return domain.User{}, apperror.NewValidationError("El rol debe ser 'ADMIN' o 'USER'.")
	}

	return s.UserRepo.Update(ctx, update)
}

// UpdateOwnProfile actualiza nombre y teléfono del propio usuario.
// Cualquier sesión válida; el rol y el email nunca se tocan por aquí.
func (s *Service) UpdateOwnProfile(ctx context.Context, currentSession *domain.Session, update domain.ProfileUpdate) (domain.User, error) {
	decision := authz.Evaluate(currentSession, authz.CapUpdateOwnProfile)
	if !decision.Allowed {
		return domain.User{}, decision.Reason
	}

	return s.UserRepo.UpdateProfile(ctx, currentSession.UserID, update)
}

// DeleteOwnAccount elimina la cuenta del usuario de la sesión. El DB
// arrastra sus transacciones en cascada y la sesión queda revocada.
// Irreversible: la confirmación es asunto del cliente, no de esta capa.
func (s *Service) DeleteOwnAccount(ctx context.Context, currentSession *domain.Session) error {
	decision := authz.Evaluate(currentSession, authz.CapDeleteOwnAccount)
	if !decision.Allowed {
		return decision.Reason
	}

	if err := s.UserRepo.Delete(ctx, currentSession.UserID); err != nil {
		return err
	}

	// Revocación best effort: la cuenta ya no existe, una sesión colgada
	// solo viviría hasta la expiración del token.
	if err := s.Sessions.Revoke(ctx, currentSession.ID); err != nil {
		s.Logger.Error("Falla al revocar la sesión de la cuenta eliminada.", err)
	}

	return nil
}
