package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
	"finanzas/internal/pkg/logger"
)

// Código de error de PostgreSQL para violación de unicidad (email duplicado).
const pqUniqueViolation = "23505"

// UserRepository implementa la interfaz domain.UserRepository sobre PostgreSQL.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository crea una nueva instancia del UserRepository, inyectando el DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save inserta un nuevo usuario en la base de datos.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuario en el repositorio.", map[string]interface{}{"email": user.Email})

	// 1. Contexto con timeout
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 2. Preparar datos e ID
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	// 3. Ejecutar el INSERT
	insertSQL := `INSERT INTO users (id, name, email, password_hash, role, phone, created_at, updated_at)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctxTimeout,
		insertSQL,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		nullableString(user.Phone),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Violación de unicidad del driver pq = email ya registrado (409).
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.User{}, apperror.NewConflictError(
				fmt.Sprintf("El email '%s' ya está en uso.", user.Email),
			)
		}
		r.logger.Error("Falla al insertar usuario en el DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuario guardado en el repositorio.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// FindByEmail busca un usuario por su dirección de email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, name, email, password_hash, role, phone, created_at, updated_at
	          FROM users WHERE email = $1`

	return r.scanUser(
		r.DB.QueryRowContext(ctxTimeout, query, email),
		fmt.Sprintf("Usuario con email '%s' no encontrado", email),
	)
}

// FindByID busca un usuario por su identificador.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, name, email, password_hash, role, phone, created_at, updated_at
	          FROM users WHERE id = $1`

	return r.scanUser(
		r.DB.QueryRowContext(ctxTimeout, query, id),
		fmt.Sprintf("Usuario con id '%s' no encontrado", id),
	)
}

// FindAll retorna todos los usuarios, del más reciente al más antiguo.
// Nunca incluye campos secretos más allá del scan interno: el hash se
// oculta en la serialización JSON de la entidad.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, name, email, password_hash, role, phone, created_at, updated_at
	          FROM users ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falla al listar usuarios en el DB.", err)
		return nil, apperror.NewDBError("failed to list users", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		var phone sql.NullString
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&phone,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			r.logger.Error("Falla al escanear fila de usuario.", err)
			return nil, apperror.NewDBError("failed to scan user row", err)
		}
		user.Phone = phone.String
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate user rows", err)
	}

	return users, nil
}

// Update aplica una actualización parcial (rol, nombre, teléfono) sobre
// cualquier usuario. Los campos nil conservan el valor actual vía COALESCE.
func (r *UserRepository) Update(ctx context.Context, update domain.UserUpdate) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `UPDATE users
	          SET role  = COALESCE($2, role),
	              name  = COALESCE($3, name),
	              phone = COALESCE($4, phone),
	              updated_at = $5
	          WHERE id = $1
	          RETURNING id, name, email, password_hash, role, phone, created_at, updated_at`

	var role *string
	if update.Role != nil {
		value := string(*update.Role)
		role = &value
	}

	return r.scanUser(
		r.DB.QueryRowContext(ctxTimeout, query, update.UserID, role, update.Name, update.Phone, time.Now()),
		fmt.Sprintf("Usuario con id '%s' no encontrado", update.UserID),
	)
}

// UpdateProfile actualiza nombre y teléfono del propio usuario. El rol y
// el email nunca pasan por este camino.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `UPDATE users
	          SET name  = COALESCE($2, name),
	              phone = COALESCE($3, phone),
	              updated_at = $4
	          WHERE id = $1
	          RETURNING id, name, email, password_hash, role, phone, created_at, updated_at`

	return r.scanUser(
		r.DB.QueryRowContext(ctxTimeout, query, userID, update.Name, update.Phone, time.Now()),
		fmt.Sprintf("Usuario con id '%s' no encontrado", userID),
	)
}

// Delete elimina al usuario. La FK de transactions tiene ON DELETE
// CASCADE: todas sus transacciones caen junto con él.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falla al eliminar usuario en el DB.", err)
		return apperror.NewDBError("failed to delete user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read delete result", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuario con id '%s' no encontrado", id))
	}

	r.logger.Info("Usuario eliminado (las transacciones caen en cascada).", map[string]interface{}{"user_id": id})
	return nil
}

// scanUser mapea una fila al struct User, traduciendo sql.ErrNoRows a 404.
func (r *UserRepository) scanUser(row *sql.Row, notFoundMsg string) (domain.User, error) {
	var user domain.User
	var phone sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(notFoundMsg)
		}
		r.logger.Error("Falla al buscar usuario en el DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user", err)
	}

	user.Phone = phone.String
	return user, nil
}

// nullableString convierte "" en NULL para columnas opcionales.
func nullableString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
