package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lingobuddy/backend/internal/config"
	"github.com/lingobuddy/backend/internal/handler"
	"github.com/lingobuddy/backend/internal/ratelimit"
	"github.com/lingobuddy/backend/internal/service/ai"
	chatservice "github.com/lingobuddy/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The prompt template and model credentials are hard requirements:
	// without them every chat request would run against an undefined prompt,
	// so refuse to start instead of degrading.
	prompts, err := ai.LoadPromptEngine(cfg.Prompt.Path)
	if err != nil {
		log.Fatalf("failed to load system prompt template: %v", err)
	}

	aiService, err := ai.NewService(ctx, prompts, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}
	log.Println("AI service initialized successfully")

	store, cleanup, err := newStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}
	defer cleanup()

	router := handler.NewRouter(store, aiService, ratelimit.Noop{}, cfg.CORS.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

// newStore connects to MongoDB when a connection string is configured and
// falls back to the in-memory store otherwise (local development only).
func newStore(ctx context.Context, cfg config.StoreConfig) (chatservice.Store, func(), error) {
	if !cfg.Enabled() {
		log.Println("MONGO_URI 未配置，使用内存会话存储（仅限本地开发）")
		return chatservice.NewMemoryStore(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, nil, err
	}
	log.Printf("connected to MongoDB database %s", cfg.Database)

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Printf("failed to disconnect from MongoDB: %v", err)
		}
	}

	return chatservice.NewMongoStore(client.Database(cfg.Database)), cleanup, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("language buddy backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
