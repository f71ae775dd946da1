// Package authz implementa el evaluador de políticas de acceso.
//
// Es una función pura: recibe el estado de autenticación de la petición
// (sesión presente o ausente) y la capacidad solicitada, y decide
// ALLOW/DENY. Para las lecturas que devuelven colecciones decide además
// el alcance (propio vs. global). No hace I/O: los handlers y servicios
// deben consultarlo primero y solo tocar el repositorio si la decisión
// fue Allow.
package authz

import (
	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
)

// Capability es una acción protegida con nombre propio. Cada operación
// de la API se corresponde con exactamente una capacidad.
type Capability string

const (
	CapViewOwnProfile    Capability = "profile:view"
	CapUpdateOwnProfile  Capability = "profile:update"
	CapDeleteOwnAccount  Capability = "account:delete"
	CapListTransactions  Capability = "transactions:list"
	CapCreateTransaction Capability = "transactions:create"
	CapListUsers         Capability = "users:list"
	CapUpdateUser        Capability = "users:update"
	CapViewReports       Capability = "reports:view"
)

// Scope es el subconjunto de filas que el solicitante puede ver.
type Scope string

const (
	// ScopeNone aplica a capacidades que no devuelven colecciones.
	ScopeNone Scope = ""
	// ScopeOwn limita la lectura a los registros del propio usuario.
	ScopeOwn Scope = "OWN"
	// ScopeAll habilita la lectura global (solo ADMIN).
	ScopeAll Scope = "ALL"
)

// Decision es el resultado del evaluador. Cuando Allowed es false,
// Reason trae el error tipado (401 o 403) listo para propagarse.
type Decision struct {
	Allowed bool
	Scope   Scope
	Reason  error
}

// adminOnly enumera las capacidades reservadas al rol ADMIN.
var adminOnly = map[Capability]bool{
	CapListUsers:   true,
	CapUpdateUser:  true,
	CapViewReports: true,
}

// Evaluate decide si la sesión puede ejecutar la capacidad solicitada.
//
// La evaluación es en dos etapas y el orden importa:
//  1. Autenticación: sin sesión todo se niega con 401, nunca con 403.
//  2. Autorización: con sesión, las capacidades de ADMIN exigen el rol.
//
// Solo después de un Allow se resuelve el alcance, y únicamente para las
// lecturas de colecciones. Colapsar el alcance dentro de la autorización
// es la clase de bug que este paquete existe para impedir: olvidar el
// filtro por dueño filtraría datos de otros usuarios en silencio.
func Evaluate(session *domain.Session, capability Capability) Decision {
	// 1. Autenticación
	if session == nil {
		return Decision{
			Allowed: false,
			Reason:  apperror.NewUnauthorizedError("No autorizado"),
		}
	}

	// 2. Autorización por rol
	if adminOnly[capability] && session.Role != domain.RoleAdmin {
		return Decision{
			Allowed: false,
			Reason:  apperror.NewForbiddenError("Prohibido: Requiere rol de Administrador"),
		}
	}

	// 3. Alcance (solo lecturas de colecciones)
	return Decision{Allowed: true, Scope: scopeFor(session, capability)}
}

// scopeFor resuelve el alcance de lectura una vez concedido el acceso.
func scopeFor(session *domain.Session, capability Capability) Scope {
	switch capability {
	case CapListTransactions:
		if session.Role == domain.RoleAdmin {
			return ScopeAll
		}
		return ScopeOwn
	case CapViewReports, CapListUsers:
		// Capacidades exclusivas de ADMIN: el alcance es global por definición.
		return ScopeAll
	default:
		// Las operaciones sobre el propio perfil/cuenta y la creación de
		// movimientos siempre actúan sobre el usuario de la sesión.
		return ScopeNone
	}
}
