package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService define el contrato para la manipulación de JWTs de sesión.
type TokenService interface {
	GenerateToken(userID, email, role string) (tokenString string, sessionID string, err error)
	ValidateToken(tokenString string) (*CustomClaims, error)
	Expiry() time.Duration
}

// CustomClaims define la información específica que guardamos en el JWT.
// Es obligatorio incorporar jwt.RegisteredClaims; el campo ID (jti) es el
// identificador de sesión que el almacén Redis usa para revocar.
type CustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionID es el identificador de sesión revocable (claim jti).
func (c *CustomClaims) SessionID() string {
	return c.RegisteredClaims.ID
}

// Service implementa la interfaz TokenService.
type Service struct {
	secretKey []byte
	expiry    time.Duration
}

// NewService crea una nueva instancia del servicio de tokens.
func NewService(secretKey string, expiry time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
	}
}

// Expiry expone la vigencia configurada. El servicio de usuarios la usa
// como TTL de la entrada de sesión en Redis.
func (s *Service) Expiry() time.Duration {
	return s.expiry
}

// GenerateToken crea un nuevo JWT firmado con la identidad del usuario y
// un identificador de sesión fresco. Retorna el token y ese identificador.
func (s *Service) GenerateToken(userID, email, role string) (string, string, error) {
	sessionID := uuid.NewString()

	claims := CustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "Finanzas-API",
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Firma el token con la clave secreta.
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", "", fmt.Errorf("falla al firmar el token: %w", err)
	}

	return tokenString, sessionID, nil
}

// ValidateToken valida el token string y retorna las claims si es válido.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verifica que el método de firma sea el esperado (HS256).
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		// Cubre los errores comunes de JWT: token expirado, firma inválida, etc.
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("el token no es válido")
	}

	return claims, nil
}
