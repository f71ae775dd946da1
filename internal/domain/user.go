package domain

import (
	"context"
	"time"
)

// User representa la entidad de usuario del sistema.
// El hash de la contraseña nunca se serializa en las respuestas JSON.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta el hash en el JSON de respuesta
	Role         UserRole  `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRole es un tipo string para representar el rol del usuario.
type UserRole string

// Roles del sistema. Solo existen dos: el usuario común y el administrador.
const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// Session es la prueba de identidad autenticada adjunta a una petición.
// La construye el middleware de autenticación a partir del token validado;
// las capas de servicio solo la leen, nunca la modifican.
type Session struct {
	ID     string   // identificador de la sesión (revocable en el store)
	UserID string   // dueño de la sesión
	Email  string
	Role   UserRole
}

// UserRegistration representa el payload de entrada para el registro.
type UserRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate representa la actualización parcial que un ADMIN aplica
// sobre cualquier usuario. Los campos nil no se tocan.
type UserUpdate struct {
	UserID string    `json:"userId"`
	Role   *UserRole `json:"role,omitempty"`
	Name   *string   `json:"name,omitempty"`
	Phone  *string   `json:"phone,omitempty"`
}

// ProfileUpdate representa la actualización que un usuario hace sobre su
// propio perfil. Solo nombre y teléfono; el rol y el email nunca pasan
// por este camino.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// UserRepository define el contrato de persistencia para la entidad User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, update UserUpdate) (User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error)
	// Delete elimina al usuario. La FK con ON DELETE CASCADE arrastra
	// todas sus transacciones; el repositorio confía en esa garantía.
	Delete(ctx context.Context, id string) error
}

// UserService define el contrato de lógica de negocio para la entidad User.
type UserService interface {
	Register(ctx context.Context, registration UserRegistration) (User, error)
	Login(ctx context.Context, email string, password string) (string, error)
	Logout(ctx context.Context, session *Session) error
	GetOwnProfile(ctx context.Context, session *Session) (User, error)
	ListUsers(ctx context.Context, session *Session) ([]User, error)
	UpdateUser(ctx context.Context, session *Session, update UserUpdate) (User, error)
	UpdateOwnProfile(ctx context.Context, session *Session, update ProfileUpdate) (User, error)
	DeleteOwnAccount(ctx context.Context, session *Session) error
}
