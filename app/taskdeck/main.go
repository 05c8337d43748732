package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jrazmi/taskdeck/app/taskdeck/config"
	"github.com/jrazmi/taskdeck/app/taskdeck/ui"
	"github.com/jrazmi/taskdeck/bridge/repositories/tasksbridge"
	"github.com/jrazmi/taskdeck/bridge/scaffolding/mid"
	"github.com/jrazmi/taskdeck/core/identity"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/taskdeck/infrastructure/postgresdb"
	"github.com/jrazmi/taskdeck/infrastructure/web"
	"github.com/jrazmi/taskdeck/schema"
	"github.com/jrazmi/taskdeck/sdk/environment"
	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/telemetry"
)

var build = "develop"

const appName = "TASKDECK"

func main() {
	envErr := environment.LoadEnv("")
	ctx := context.Background()

	tel := telemetry.NewTelemetry()

	log, err := logger.NewFromEnv(appName, logger.WithTraceIDFn(tel.GetTraceID))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}

	if envErr != nil {
		log.InfoContext(ctx, "startup", "status", "no .env file loaded", "err", envErr)
	}

	if err := run(ctx, log, tel); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// :*: START DATABASES :*:
	pg, err := postgresdb.NewDatabaseFromEnv(appName)
	if err != nil {
		return fmt.Errorf("configuring postgres support: %w", err)
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing database connection")
		pg.Close()
	}()

	log.InfoContext(ctx, "startup", "status", "running migrations")
	if err := postgresdb.Migrate(ctx, pg, schema.MigrationsFS, "pgmigrations"); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	// END DATABASES //

	// REPOSITORIES //
	log.InfoContext(ctx, "startup", "status", "initializing repository support")
	taskRepository := tasksrepo.NewRepository(log, taskspgxstore.NewStore(log, pg))
	// END REPOSITORIES //

	resolver, err := identity.NewJWTResolverFromEnv(appName)
	if err != nil {
		return fmt.Errorf("configuring session resolver: %w", err)
	}

	siteCfg := config.Taskdeck{
		Build:  build,
		Logger: log,
		Repositories: config.Repositories{
			Tasks: taskRepository,
		},
		Resolver:  resolver,
		Telemetry: tel,
	}

	handler, err := webHandler(siteCfg, pg)
	if err != nil {
		return fmt.Errorf("building web handler: %w", err)
	}

	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig.String())
		defer log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "signal", sig.String())

		ctx, cancel := context.WithTimeout(ctx, server.Config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func webHandler(cfg config.Taskdeck, pg *postgresdb.Pool) (http.Handler, error) {
	wh, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(cfg.Logger.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Logger),
			mid.Errors(cfg.Logger),
			mid.Panics(),
		),
	)
	if err != nil {
		return nil, err
	}

	// API
	api := wh.Group(config.ApiRoute)
	api.GET("/health", health(pg))

	tasksbridge.AddHttpRoutes(api, tasksbridge.Config{
		Repository: cfg.Repositories.Tasks,
		Resolver:   cfg.Resolver,
	})

	// UI
	if err := ui.AddHandlers(wh); err != nil {
		return nil, fmt.Errorf("setting up ui file server: %w", err)
	}

	return wh, nil
}

// health reports whether the service can reach its database.
func health(pg *postgresdb.Pool) web.HandlerFunc {
	type status struct {
		Status string `json:"status"`
	}

	return func(ctx context.Context, r *http.Request) web.Encoder {
		if err := postgresdb.StatusCheck(ctx, pg); err != nil {
			return web.NewJSONResponseWithStatus(status{Status: "db not ready"}, http.StatusInternalServerError)
		}
		return web.NewJSONResponse(status{Status: "ok"})
	}
}
