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

	"github.com/zhouzirui/alu-chat/backend/internal/config"
	"github.com/zhouzirui/alu-chat/backend/internal/handler"
	chatModel "github.com/zhouzirui/alu-chat/backend/internal/model/chat"
	"github.com/zhouzirui/alu-chat/backend/internal/model/user"
	"github.com/zhouzirui/alu-chat/backend/internal/service/chat"
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

	fixture, err := loadFixture(cfg.Fixture)
	if err != nil {
		log.Fatalf("failed to load fixture: %v", err)
	}

	// Initialize user store and chat service
	userStore := user.NewMemoryStore(fixture.Users())
	chatService, err := chat.NewService(fixture.CurrentUser.ID, fixture.Chats)
	if err != nil {
		log.Fatalf("failed to initialize chat service: %v", err)
	}
	log.Printf("[chat] session user=%s chats=%d", fixture.CurrentUser.ID, len(fixture.Chats))

	router := handler.NewRouter(chatService, userStore, fixture.CurrentUser, cfg)

	startServer(ctx, cfg.Server, router)
}

func loadFixture(cfg config.FixtureConfig) (chatModel.Fixture, error) {
	if cfg.Path == "" {
		log.Println("CHAT_FIXTURE_PATH 未配置，使用内置演示数据")
		return chatModel.SeedFixture(), nil
	}
	return chatModel.LoadFixtureFile(cfg.Path)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ALU chat backend listening on %s", addr)
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
