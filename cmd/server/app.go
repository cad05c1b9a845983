package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tasklane/tasklane-api/internal/config"
	"github.com/tasklane/tasklane-api/internal/mail"
	"github.com/tasklane/tasklane-api/internal/platform/googleauth"
	"github.com/tasklane/tasklane-api/internal/platform/postgres"
	"github.com/tasklane/tasklane-api/internal/service"
	"github.com/tasklane/tasklane-api/internal/service/auth"
	"github.com/tasklane/tasklane-api/internal/store"
)

// application holds the shared dependencies of the server: the config,
// the logger, the database handle, and the wired stores and services.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore  store.UserStore
	taskStore  store.TaskStore
	jwtService auth.JWTService
	tokenStore store.TokenStore
	accounts   *service.AccountService
	google     googleauth.Provider
}

// newApplication wires the full dependency graph from a loaded config
// and an open database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	codeStore := postgres.NewPostgresCodeStore(db, logger)
	tokenStore := postgres.NewPostgresTokenStore(db, logger)
	invitationStore := postgres.NewPostgresInvitationStore(db)
	errorLogStore := postgres.NewPostgresErrorLogStore(db, logger)

	mailer := mail.NewSMTPMailer(cfg.Mail, logger)
	google := googleauth.NewGoogleProvider(cfg.Google, cfg.Server.BackendURL)

	accounts := service.NewAccountService(
		store.NewTxRunner(db),
		userStore,
		codeStore,
		tokenStore,
		invitationStore,
		errorLogStore,
		auth.NewBcryptHasher(),
		jwtService,
		mailer,
		logger,
	)

	return &application{
		config:     cfg,
		logger:     logger,
		db:         db,
		userStore:  userStore,
		taskStore:  taskStore,
		jwtService: jwtService,
		tokenStore: tokenStore,
		accounts:   accounts,
		google:     google,
	}, nil
}

// cleanup releases the application's resources at shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
