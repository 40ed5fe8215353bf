package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/issue"
	issuerepo "github.com/ovaphlow/pitchfork/service-tracker-go/internal/issue/repo"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/project"
	projectrepo "github.com/ovaphlow/pitchfork/service-tracker-go/internal/project/repo"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/token"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-tracker-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tracker-api",
		Usage: "issue tracker HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file to load before reading configuration",
				Value: ".env",
			},
		},
		Before: loadEnv,
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		DefaultCommand: "serve",
	}
}

// loadEnv is best-effort for the default path; an explicitly named file must exist.
func loadEnv(c *cli.Context) error {
	path := c.String("env-file")
	if err := godotenv.Load(path); err != nil {
		if c.IsSet("env-file") {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address",
				Value:   "0.0.0.0:8431",
				EnvVars: []string{"HTTP_ADDR"},
			},
			&cli.BoolFlag{
				Name:    "auto-migrate",
				Usage:   "apply pending migrations before serving",
				Value:   true,
				EnvVars: []string{"AUTO_MIGRATE"},
			},
		},
		Action: serve,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Apply pending database migrations and exit",
		Action: migrate,
	}
}

func newLogger() (*zap.SugaredLogger, func(), error) {
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return lg.Sugar(), func() { _ = lg.Sync() }, nil
}

func migrate(c *cli.Context) error {
	sugar, flush, err := newLogger()
	if err != nil {
		return err
	}
	defer flush()

	db, err := database.Connect(c.Context, database.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(c.Context, db.DB); err != nil {
		return err
	}
	sugar.Info("migrations applied")
	return nil
}

func serve(c *cli.Context) error {
	sugar, flush, err := newLogger()
	if err != nil {
		return err
	}
	defer flush()
	sugar.Info("starting service-tracker-go")

	tokenCfg, err := token.ConfigFromEnv()
	if err != nil {
		return err
	}
	sugar.Infow("token settings", "token", tokenCfg.String())

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Bool("auto-migrate") {
		if err := database.Migrate(ctx, db.DB); err != nil {
			return err
		}
	}

	handler, err := buildHandler(sugar, db, tokenCfg)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	sugar.Info("shutting down")
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	sugar.Info("goodbye")
	return nil
}

// buildHandler wires repositories, services and handlers into the router.
func buildHandler(logger *zap.SugaredLogger, db *sqlx.DB, tokenCfg token.Config) (http.Handler, error) {
	tokens, err := token.NewService(tokenCfg)
	if err != nil {
		return nil, err
	}
	users, err := user.NewUserService(
		userrepo.NewUserRepo(db),
		user.NewBcryptHasher(user.BcryptCostFromEnv()),
		tokens,
	)
	if err != nil {
		return nil, err
	}
	h := router.Handlers{
		Users:    user.NewHandler(users, logger),
		Projects: project.NewHandler(project.NewService(projectrepo.NewProjectRepo(db)), logger),
		Issues:   issue.NewHandler(issue.NewService(issuerepo.NewIssueRepo(db)), logger),
	}
	return router.RegisterRoutes(logger, h, tokens, router.ConfigFromEnv()), nil
}
