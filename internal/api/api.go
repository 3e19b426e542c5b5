package api

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"

	"github.com/nexora/cloudtask/internal/api/authenticator"
	"github.com/nexora/cloudtask/internal/board"
	"github.com/nexora/cloudtask/internal/config"
	"github.com/nexora/cloudtask/internal/gateway"
	"github.com/nexora/cloudtask/internal/session"
)

// Server is the board HTTP server: session auth in front, task-service
// gateway behind, view composition in between.
type Server struct {
	srv      *fasthttp.Server
	addr     string
	conf     *config.Config
	boards   *board.Service
	sessions *session.Manager
	auth     *authenticator.Authenticator
}

// New wires the gateway client, session manager and board service into a
// server ready to start.
func New() *Server {
	conf := config.ReadConfig()

	gw := gateway.NewClient(conf.TASK_SERVICE_URL, conf.MEMBER_ROUTE_PREFIX)

	sessions := session.NewManager(newSessionStore(conf), gw, 24*time.Hour)
	sessions.Subscribe(func(c session.Change) {
		if c.SignedIn {
			slog.Info("User signed in", slog.String("uid", c.User.UID), slog.String("email", c.User.Email))
			return
		}
		slog.Info("User signed out")
	})

	auth, err := authenticator.New(conf)
	if err != nil {
		log.Fatal(err)
	}

	s := &Server{
		srv:      &fasthttp.Server{},
		addr:     fmt.Sprintf("0.0.0.0:%d", conf.PORT),
		conf:     conf,
		boards:   board.NewService(gw),
		sessions: sessions,
		auth:     auth,
	}

	s.srv.Handler = s.initRoutes()

	return s
}

// newSessionStore prefers Redis when configured and reachable; otherwise the
// in-memory store keeps a single instance working.
func newSessionStore(conf *config.Config) session.Store {
	if conf.REDIS_HOST == "" {
		slog.Info("No Redis host configured, using in-memory session store")
		return session.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.REDIS_HOST, conf.REDIS_PORT),
		Password: conf.REDIS_PASSWORD,
		DB:       conf.REDIS_DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Warn("Redis unreachable, falling back to in-memory session store", slog.Any("error", err))
		return session.NewMemoryStore()
	}

	slog.Info("Using Redis session store", slog.String("host", conf.REDIS_HOST))
	return session.NewRedisStore(client)
}

// Start the rest server
func (s *Server) Start() {
	slog.Info("Starting board server...")
	go func() {
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			slog.Error("Server shutdown", slog.Any("error", err))
		}
	}()
	slog.Info("Board server started!", slog.String("addr", s.addr))

	// Listen for OS interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block till we receive an interrupt
	<-c
	slog.Info("Received interrupt...")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s.shutdown(ctx)
}

func (s *Server) shutdown(_ context.Context) {
	slog.Info("Gracefully shutting down board server...")
	if err := s.srv.Shutdown(); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}
	slog.Info("Board server shutdown!")
}
