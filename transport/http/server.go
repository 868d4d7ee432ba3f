// Package http exposes the chat API over REST JSON.
package http

import (
	"chat-gate/services"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

type Server struct {
	accounts   services.IAccountService
	chat       services.IChatService
	moderation services.IModerationService
	retention  services.IRetentionService
	logger     *slog.Logger
	server     *http.Server
}

func New(
	accounts services.IAccountService,
	chat services.IChatService,
	moderation services.IModerationService,
	retention services.IRetentionService,
	logger *slog.Logger,
) *Server {
	return &Server{
		accounts:   accounts,
		chat:       chat,
		moderation: moderation,
		retention:  retention,
		logger:     logger,
	}
}

// Handler builds the routed, CORS-wrapped handler. Routes are declared
// as compile-checked method+path patterns; anything unmatched falls into
// the JSON 404.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /messages", s.handleMessages)
	mux.HandleFunc("POST /send", s.handleSend)
	mux.HandleFunc("GET /user-list", s.handleUserList)
	mux.HandleFunc("GET /get-clear-time", s.handleGetClearTime)
	mux.HandleFunc("POST /set-clear-time", s.handleSetClearTime)
	mux.HandleFunc("POST /clear-messages", s.handleClearMessages)
	mux.HandleFunc("POST /mute", s.handleMute)
	mux.HandleFunc("POST /unmute", s.handleUnmute)
	mux.HandleFunc("GET /get-mute-list", s.handleMuteList)
	mux.HandleFunc("POST /remove", s.handleRemove)
	mux.HandleFunc("POST /update-avatar", s.handleUpdateAvatar)
	mux.HandleFunc("POST /update-password", s.handleUpdatePassword)

	// Preflight OPTIONS is answered by the CORS layer; this catches bare
	// OPTIONS on any path with a headers-only reply.
	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/", s.handleNotFound)

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	// Permissive CORS on every route; preflight OPTIONS is answered here
	// and never reaches the mux.
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(handler)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, host string, port int) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Chat API listening", "addr", s.server.Addr)
		errChan <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
