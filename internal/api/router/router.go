package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"finanzas/internal/api/admin"
	"finanzas/internal/api/transaction"
	"finanzas/internal/api/user"
	"finanzas/internal/pkg/cache"
	"finanzas/internal/pkg/middleware"
)

// NewRouter configura y retorna el router HTTP principal.
// Recibe los Handlers ya inicializados por inyección de dependencias y
// el resolver de sesión; las rutas protegidas pasan por el resolver y
// dejan la decisión de acceso al evaluador de políticas dentro de cada
// servicio.
func NewRouter(
	transactionHandler *transaction.Handler,
	adminHandler *admin.Handler,
	userHandler *user.Handler,
	resolveSession func(next http.HandlerFunc) http.HandlerFunc,
	cacheClient cache.Client,
	rateLimitMax int,
	rateLimitPeriod time.Duration,
) http.Handler {

	// Usamos el ServeMux estándar de net/http para el ruteo.
	mux := http.NewServeMux()

	// --- 1. Health check ---
	mux.HandleFunc("/ping", PingHandler)

	// --- 2. Autenticación local (sin sesión previa) ---
	mux.HandleFunc("/register", userHandler.RegisterHandler)
	mux.HandleFunc("/login", userHandler.LoginHandler)
	mux.HandleFunc("/logout", resolveSession(userHandler.LogoutHandler))

	// --- 3. Libro de transacciones ---
	mux.HandleFunc("/transactions", resolveSession(transactionHandler.TransactionsHandler))

	// --- 4. Área administrativa ---
	mux.HandleFunc("/admin/users", resolveSession(adminHandler.UsersHandler))
	mux.HandleFunc("/admin/reports", resolveSession(adminHandler.ReportsHandler))

	// --- 5. Cuenta propia ---
	mux.HandleFunc("/user/profile", resolveSession(userHandler.ProfileHandler))
	mux.HandleFunc("/user", resolveSession(userHandler.DeleteAccountHandler))

	// --- 6. Documentación (Swagger UI) ---
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// --- 7. Middlewares globales ---
	return middleware.RateLimiter(cacheClient, rateLimitMax, rateLimitPeriod)(mux)
}

// PingHandler es una función utilitaria para el health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
