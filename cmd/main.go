package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webauth/internal/handlers"
	"webauth/internal/logger"
	"webauth/internal/render"
	"webauth/internal/repository"
	"webauth/internal/server"
	"webauth/internal/service"
	"webauth/internal/session"

	"github.com/spf13/viper"
)

const sessionKeyLen = 32

func main() {
	// load config.yml first so log.level applies to the logger
	cfgErr := loadConfig()

	log := logger.Get(viper.GetString("log.level"))
	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// view templates
	renderer, err := render.NewHTMLRenderer(templatesGlob())
	if err != nil {
		log.Fatalw("failed to load templates", "err", err)
	}

	// session signing key lives for this process only; restarting
	// invalidates every outstanding session.
	key, err := newSessionKey()
	if err != nil {
		log.Fatalw("failed to generate session key", "err", err)
	}
	sessions := session.NewManager(key, viper.GetString("session.cookie_name"))

	// wire dependencies
	repos := repository.NewRepository(db)
	hasher := service.NewBcryptHasher(viper.GetInt("auth.bcrypt_cost"))
	services := service.NewService(repos, hasher)
	apiHandler := handlers.NewHandler(services, sessions, renderer, db, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func templatesGlob() string {
	glob := viper.GetString("templates.glob")
	if glob == "" {
		glob = "templates/*.html"
	}
	return glob
}

func newSessionKey() ([]byte, error) {
	key := make([]byte, sessionKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("read random session key: %w", err)
	}
	return key, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
