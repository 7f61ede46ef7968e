package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/PGD3311/Catch-5/internal/stats"
)

// Config holds the tunables that govern room behavior.
type Config struct {
	TurnTimeout    time.Duration // how long a connected human gets per turn
	CPUDelay       time.Duration // pacing delay before an automated seat acts
	ReconnectGrace time.Duration // disconnect window before a seat goes on autopilot
	RoomReapDelay  time.Duration // idle/finished time before a room is reclaimed
	ReapInterval   time.Duration
}

type Server struct {
	port int
	log  *logrus.Logger
	db   *sql.DB

	stats   stats.Store
	conns   *ConnectionManager
	rooms   *RoomManager
	limiter *RateLimiter
}

func NewServer() (*Server, *http.Server) {
	log := newLogger()

	port := envInt("PORT", 8080)
	cfg := Config{
		TurnTimeout:    time.Duration(envInt("TURN_TIMEOUT_SECONDS", 20)) * time.Second,
		CPUDelay:       time.Duration(envInt("CPU_DELAY_MS", 600)) * time.Millisecond,
		ReconnectGrace: time.Duration(envInt("RECONNECT_GRACE_SECONDS", 60)) * time.Second,
		RoomReapDelay:  time.Duration(envInt("ROOM_REAP_SECONDS", 300)) * time.Second,
		ReapInterval:   time.Duration(envInt("REAP_INTERVAL_SECONDS", 30)) * time.Second,
	}

	dbPath := os.Getenv("DB_URL")
	if dbPath == "" {
		dbPath = "catch5.db"
	}
	db, err := stats.Open(dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	if err := runMigrations(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	statsStore := stats.NewSQLiteStore(db)

	conns := NewConnectionManager()
	rooms := NewRoomManager(conns, statsStore, cfg, log)
	rooms.StartReaper(cfg.ReapInterval)

	srv := &Server{
		port:    port,
		log:     log,
		db:      db,
		stats:   statsStore,
		conns:   conns,
		rooms:   rooms,
		limiter: NewRateLimiter(10, time.Second),
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv, httpServer
}

// Shutdown stops background work and closes the database. The HTTP listener
// is shut down separately by the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rooms.StopReaper()
	return s.db.Close()
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	return log
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func runMigrations(db *sql.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "./db/migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
