package middleware

import (
	"context"
	"net/http"
	"strings"

	"finanzas/internal/domain"
	"finanzas/internal/pkg/logger"
	"finanzas/internal/pkg/session"
	"finanzas/internal/pkg/token"
)

// ContextKey es el tipo de la clave de contexto. Usamos un tipo propio
// para garantizar que no choque con claves string de otros paquetes.
type ContextKey int

const (
	SessionKey ContextKey = iota
)

// TokenValidator define el contrato de validación que necesita el middleware.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewSessionResolver crea el middleware que resuelve la sesión de la
// petición: extrae el Bearer token, lo valida y verifica que la sesión
// siga viva en el almacén (las sesiones son revocables).
//
// Este middleware nunca rechaza la petición: si no hay sesión válida,
// simplemente no adjunta nada y la petición sigue como anónima. La
// decisión de negar (401/403) pertenece al evaluador de políticas, no
// a esta capa.
func NewSessionResolver(tokenSvc TokenValidator, sessions session.Store, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extraer el token del header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r) // petición anónima
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			// 2. Validar el token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				// Token malformado o expirado: la petición sigue anónima.
				log.Debug("Token de sesión inválido.", map[string]interface{}{"path": r.URL.Path})
				next.ServeHTTP(w, r)
				return
			}

			// 3. Verificar que la sesión no fue revocada (logout, cuenta borrada)
			alive, err := sessions.Exists(r.Context(), claims.SessionID())
			if err != nil {
				log.Error("Falla al consultar el almacén de sesiones.", err)
				next.ServeHTTP(w, r)
				return
			}
			if !alive {
				next.ServeHTTP(w, r)
				return
			}

			// 4. Adjuntar la sesión al contexto
			resolved := &domain.Session{
				ID:     claims.SessionID(),
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   domain.UserRole(claims.Role),
			}

			ctx := context.WithValue(r.Context(), SessionKey, resolved)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetSessionFromContext extrae la sesión resuelta en el handler.
// Retorna nil cuando la petición es anónima: ese nil viaja tal cual al
// evaluador de políticas, que responderá con 401.
func GetSessionFromContext(ctx context.Context) *domain.Session {
	resolved, ok := ctx.Value(SessionKey).(*domain.Session)
	if !ok {
		return nil
	}
	return resolved
}
