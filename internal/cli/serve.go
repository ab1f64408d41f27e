package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/infrastructure"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/pagination"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/server"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/usecase"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the HTTP API",
	Long:    `Migrates the database and serves the JSON API until SIGINT or SIGTERM.`,
	GroupID: "server",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.migrate(ctx); err != nil {
			return err
		}

		e, _ := server.New(a.deps())
		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("starting server", slog.String("addr", a.cfg.Server.Addr))
			errCh <- e.Start(a.cfg.Server.Addr)
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("server has failed", slog.Any("err", err))
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.logger.Info("shutting down", slog.Duration("timeout", a.cfg.GetShutdownTimeout()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GetShutdownTimeout())
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("graceful shutdown failed", slog.Any("err", err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// deps wires the repositories and services behind the HTTP API.
func (a *app) deps() server.Deps {
	verbs := infrastructure.NewVerbRepository(a.db, a.collections)
	authRepo := infrastructure.NewAuthRepository(a.db)
	jwtAuth := a.jwt(authRepo)
	limits := pagination.Limits{
		DefaultPerPage: a.cfg.Pagination.DefaultPerPage,
		MaxPerPage:     a.cfg.Pagination.MaxPerPage,
	}
	return server.Deps{
		Logger:         a.logger,
		Auth:           usecase.NewAuthService(authRepo, jwtAuth),
		JWT:            jwtAuth,
		Verbs:          usecase.NewVerbService(verbs, limits),
		Favorites:      usecase.NewFavoritesService(infrastructure.NewFavoritesRepository(a.db, verbs), verbs, limits),
		Lists:          usecase.NewListService(infrastructure.NewListRepository(a.db, verbs), verbs),
		DB:             a.db,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		CookieSecure:   a.cfg.Server.CookieSecure,
	}
}

func (a *app) jwt(authRepo *infrastructure.AuthRepository) *usecase.JWTAuth {
	return usecase.NewJWTAuth(
		authRepo,
		a.cfg.Auth.AccessSecret,
		a.cfg.Auth.RefreshSecret,
		a.cfg.Auth.Issuer,
		a.cfg.GetRefreshTTL(),
		a.cfg.GetAccessTTL(),
	)
}
