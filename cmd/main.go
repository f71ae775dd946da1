package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	// Paquetes de infraestructura y utilitarios
	"finanzas/config"
	"finanzas/internal/pkg/cache"
	"finanzas/internal/pkg/database"
	"finanzas/internal/pkg/logger"
	"finanzas/internal/pkg/middleware"
	"finanzas/internal/pkg/session"
	"finanzas/internal/pkg/token"

	// Capas de la aplicación para inyección de dependencias
	"finanzas/internal/api/admin"
	"finanzas/internal/api/router"
	"finanzas/internal/api/transaction"
	"finanzas/internal/api/user"
	"finanzas/internal/repository/transactionrepo"
	"finanzas/internal/repository/userrepo"
	"finanzas/internal/service/transactionservice"
	"finanzas/internal/service/userservice"
)

func main() {
	// 1. Configuración e inicialización
	log.Println("⚡ Inicializando servicio Finanzas...")

	// 0. Cargar variables de entorno (.env)
	// Si no hay archivo .env seguimos igual: las variables esenciales
	// pueden venir del entorno del sistema (e.g., Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: archivo .env no encontrado. Cargando configs solo del entorno del sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configuraciones cargadas.", nil)

	// Los montos se serializan como números JSON, igual que en el
	// contrato original de la API (flag global de shopspring/decimal).
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Conexión con recursos de infraestructura

	// A. Base de datos (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falla al conectar con la base de datos.", err)
	}
	defer db.Close()
	log.Info("Conexión PostgreSQL establecida.", nil)

	// B. Cache y almacén de sesiones (Redis)
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Fatal("Falla al conectar con Redis.", err)
	}
	sessionStore := session.NewRedisStore(cacheClient)
	log.Info("Conexión Redis establecida.", nil)

	// C. Servicio de tokens (JWT de sesión)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 3. Inyección de dependencias (Repository -> Service -> Handler)

	// A. Repositorios
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	transactionRepo := transactionrepo.NewTransactionRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositorios inicializados.", nil)

	// B. Servicios
	userSvc := userservice.NewService(userRepo, tokenSvc, sessionStore, log)
	transactionSvc := transactionservice.NewService(transactionRepo, log)
	log.Debug("Servicios inicializados.", nil)

	// C. Handlers
	userHandler := user.NewHandler(userSvc, log)
	transactionHandler := transaction.NewHandler(transactionSvc, log)
	adminHandler := admin.NewHandler(userSvc, transactionSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// D. Resolver de sesión (middleware de autenticación)
	resolveSession := middleware.NewSessionResolver(tokenSvc, sessionStore, log)

	// 4. Configuración e inicio del router/servidor

	r := router.NewRouter(
		transactionHandler,
		adminHandler,
		userHandler,
		resolveSession,
		cacheClient,
		cfg.RateLimitMaxRequests,
		cfg.RateLimitPeriod,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Ejecución y graceful shutdown
	go func() {
		log.Info("Servidor Finanzas escuchando.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("El servidor falló.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Señal de cierre recibida. Apagando el servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Apagado del servidor forzado.", err)
	}

	log.Info("Servidor apagado con éxito.", nil)
}
