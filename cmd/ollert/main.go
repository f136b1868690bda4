// Command ollert runs the Ollert server: the auth and boards API plus the
// static frontend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/smtp"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/ackinc/ollert"
	"github.com/ackinc/ollert/mailer"
	"github.com/ackinc/ollert/providers"
	"github.com/ackinc/ollert/stores/boltdb"
	"github.com/ackinc/ollert/stores/mem"
	"github.com/ackinc/ollert/stores/postgres"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userStore, closeStore, err := openUserStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	codeCache, closeCache, err := openCodeCache(cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	auth := &ollert.Auth{
		Accounts: &ollert.Accounts{
			Store:     userStore,
			Passwords: &ollert.PasswordHasher{Cost: cfg.BcryptCost},
		},
		Codes: &ollert.CodeIssuer{
			Cache:                codeCache,
			Length:               cfg.CodeLength,
			EmailVerificationTTL: cfg.EmailVerificationTTL,
			PasswordResetTTL:     cfg.PasswordResetTTL,
		},
		Sessions: &ollert.SessionIssuer{
			SecretKey: cfg.JWTSecretKey,
			Expiry:    cfg.SessionExpiry,
		},
		Mailer:    newMailer(cfg, logger),
		Resolvers: newResolvers(cfg),
		SiteURL:   cfg.SiteURL,
		Logger:    logger,
	}

	router := mux.NewRouter()
	auth.Routes(router)
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openUserStore(ctx context.Context, cfg *Config, logger *slog.Logger) (ollert.UserStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory user store")
		return mem.NewUserStore(), func() {}, nil
	}
	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func openCodeCache(cfg *Config, logger *slog.Logger) (ollert.CodeCache, func(), error) {
	if cfg.CodeCachePath == "" {
		logger.Warn("CODE_CACHE_PATH not set, using in-memory code cache")
		return mem.NewCodeCache(), func() {}, nil
	}
	cache, err := boltdb.Open(cfg.CodeCachePath)
	if err != nil {
		return nil, nil, err
	}
	return cache, func() { cache.Close() }, nil
}

func newMailer(cfg *Config, logger *slog.Logger) ollert.Mailer {
	if cfg.SMTPAddr == "" {
		logger.Warn("SMTP_ADDR not set, emails go to the console")
		return &ollert.ConsoleMailer{}
	}
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		host := cfg.SMTPAddr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, host)
	}
	return &mailer.SMTP{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom, Auth: auth}
}

func newResolvers(cfg *Config) map[string]ollert.IdentityResolver {
	resolvers := make(map[string]ollert.IdentityResolver)
	if cfg.GoogleClientID != "" {
		resolvers["google"] = &providers.Google{ClientID: cfg.GoogleClientID}
	}
	if cfg.FacebookAppSecret != "" {
		resolvers["facebook"] = &providers.Facebook{AppSecret: cfg.FacebookAppSecret}
	}
	return resolvers
}
