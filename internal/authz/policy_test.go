package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finanzas/internal/authz"
	"finanzas/internal/domain"
	apperror "finanzas/internal/errors"
)

// allCapabilities cubre todas las capacidades del sistema.
var allCapabilities = []authz.Capability{
	authz.CapViewOwnProfile,
	authz.CapUpdateOwnProfile,
	authz.CapDeleteOwnAccount,
	authz.CapListTransactions,
	authz.CapCreateTransaction,
	authz.CapListUsers,
	authz.CapUpdateUser,
	authz.CapViewReports,
}

// TestEvaluate_Anonymous_AlwaysUnauthorized verifica que sin sesión toda
// capacidad se niega con 401, nunca con 403.
func TestEvaluate_Anonymous_AlwaysUnauthorized(t *testing.T) {
	for _, capability := range allCapabilities {
		decision := authz.Evaluate(nil, capability)

		assert.False(t, decision.Allowed, "capacidad %s", capability)
		assert.IsType(t, &apperror.UnauthorizedError{}, decision.Reason, "capacidad %s", capability)
		assert.NotContains(t, decision.Reason.Error(), "Prohibido")
	}
}

// TestEvaluate_User_AdminCapabilitiesForbidden verifica que un USER con
// sesión válida recibe 403 (no 401) en las capacidades de ADMIN.
func TestEvaluate_User_AdminCapabilitiesForbidden(t *testing.T) {
	session := &domain.Session{ID: "s1", UserID: "u1", Email: "user@test.com", Role: domain.RoleUser}

	for _, capability := range []authz.Capability{authz.CapListUsers, authz.CapUpdateUser, authz.CapViewReports} {
		decision := authz.Evaluate(session, capability)

		assert.False(t, decision.Allowed, "capacidad %s", capability)
		assert.IsType(t, &apperror.ForbiddenError{}, decision.Reason, "capacidad %s", capability)
	}
}

// TestEvaluate_User_OwnCapabilitiesAllowed verifica que cualquier sesión
// puede operar sobre lo propio.
func TestEvaluate_User_OwnCapabilitiesAllowed(t *testing.T) {
	session := &domain.Session{ID: "s1", UserID: "u1", Role: domain.RoleUser}

	for _, capability := range []authz.Capability{
		authz.CapViewOwnProfile,
		authz.CapUpdateOwnProfile,
		authz.CapDeleteOwnAccount,
		authz.CapCreateTransaction,
	} {
		decision := authz.Evaluate(session, capability)

		assert.True(t, decision.Allowed, "capacidad %s", capability)
		assert.NoError(t, decision.Reason)
		assert.Equal(t, authz.ScopeNone, decision.Scope)
	}
}

// TestEvaluate_ListTransactions_ScopeByRole verifica la decisión de
// alcance de segundo orden: USER ve lo suyo, ADMIN ve todo.
func TestEvaluate_ListTransactions_ScopeByRole(t *testing.T) {
	user := &domain.Session{ID: "s1", UserID: "u1", Role: domain.RoleUser}
	admin := &domain.Session{ID: "s2", UserID: "a1", Role: domain.RoleAdmin}

	userDecision := authz.Evaluate(user, authz.CapListTransactions)
	assert.True(t, userDecision.Allowed)
	assert.Equal(t, authz.ScopeOwn, userDecision.Scope)

	adminDecision := authz.Evaluate(admin, authz.CapListTransactions)
	assert.True(t, adminDecision.Allowed)
	assert.Equal(t, authz.ScopeAll, adminDecision.Scope)
}

// TestEvaluate_Admin_GlobalCapabilities verifica que el ADMIN accede a
// las capacidades globales con alcance ALL.
func TestEvaluate_Admin_GlobalCapabilities(t *testing.T) {
	admin := &domain.Session{ID: "s2", UserID: "a1", Role: domain.RoleAdmin}

	for _, capability := range []authz.Capability{authz.CapListUsers, authz.CapViewReports} {
		decision := authz.Evaluate(admin, capability)

		assert.True(t, decision.Allowed, "capacidad %s", capability)
		assert.Equal(t, authz.ScopeAll, decision.Scope, "capacidad %s", capability)
	}

	updateDecision := authz.Evaluate(admin, authz.CapUpdateUser)
	assert.True(t, updateDecision.Allowed)
}
