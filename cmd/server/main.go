package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/aleixpv/fortuna/internal/auth"
	"github.com/aleixpv/fortuna/internal/config"
	"github.com/aleixpv/fortuna/internal/database"
	postgresrepo "github.com/aleixpv/fortuna/internal/repository/postgres"
	"github.com/aleixpv/fortuna/internal/service"
	"github.com/aleixpv/fortuna/internal/storage"
	"github.com/aleixpv/fortuna/internal/transport/http/handlers"
	"github.com/aleixpv/fortuna/internal/transport/http/middleware"
	"github.com/aleixpv/fortuna/internal/transport/ws"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("loading config failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Database. An unreachable store is fatal at startup.
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Error("connecting to database failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("connected to database")

	if err := database.Migrate(cfg.DSN(), cfg.MigrationsDir); err != nil {
		log.Error("running migrations failed", "error", err)
		os.Exit(1)
	}

	// Redis backs the credential denylist.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("connecting to redis failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	uploads, err := storage.NewDiskStore(cfg.UploadDir, "/uploads")
	if err != nil {
		log.Error("preparing upload dir failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	ledgerRepo := postgresrepo.NewLedgerRepo(pool)
	ticketRepo := postgresrepo.NewTicketRepo(pool)

	// WebSocket hub
	hub := ws.NewHub(log)
	go hub.Run()

	// Services
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, auth.NewRedisDenylist(rdb), log)
	authService := service.NewAuthService(userRepo, issuer, cfg.HashParams())
	userService := service.NewUserService(userRepo, cfg.HashParams())
	ledgerService := service.NewLedgerService(ledgerRepo, ws.NewHubNotifier(hub, log))
	ticketService := service.NewTicketService(ticketRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.CookieSecure, cfg.TokenTTL, log)
	userHandler := handlers.NewUserHandler(userService, uploads, log)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, log)
	ticketHandler := handlers.NewTicketHandler(ticketService, uploads, log)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /protected", authHandler.Protected)

	mux.HandleFunc("POST /transaction", ledgerHandler.Transaction)
	mux.HandleFunc("POST /substract-balance", ledgerHandler.SubstractBalance)
	mux.HandleFunc("GET /balance", ledgerHandler.Balance)
	mux.HandleFunc("GET /transactions", ledgerHandler.Transactions)

	mux.HandleFunc("GET /users", userHandler.List)
	mux.HandleFunc("PUT /users", userHandler.Update)
	mux.HandleFunc("DELETE /users/{nickname}", userHandler.Delete)
	mux.HandleFunc("POST /change-password", userHandler.ChangePassword)
	mux.HandleFunc("POST /update-profile-picture", userHandler.UpdateProfilePicture)
	mux.HandleFunc("GET /profile-picture/{nickname}", userHandler.ProfilePicture)

	mux.HandleFunc("POST /create-ticket", ticketHandler.Create)
	mux.HandleFunc("GET /tickets", ticketHandler.List)
	mux.HandleFunc("PATCH /tickets/{id}", ticketHandler.UpdateStatus)

	mux.HandleFunc("GET /ws", ws.ServeWS(hub, log))

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir()))))

	handler := middleware.CORS(middleware.Session(issuer)(mux))

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
