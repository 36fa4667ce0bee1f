package main

import (
	"chatwire/db"
	"chatwire/imagehost"
	"chatwire/logger"
	"chatwire/middleware"
	"chatwire/rdx"
	"chatwire/realtime"
	"chatwire/routes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Image payloads arrive base64-inlined in JSON bodies; this cap bounds them.
const maxBodyBytes = 4 << 20

func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(hub *realtime.Hub, avatars, attachments imagehost.Store) http.Handler {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, avatars)
	routes.AddMessageRoutes(router, hub, attachments)
	routes.AddRealtimeRoutes(router, hub)
	routes.AddStaticRoutes(router)

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "token"},
		AllowCredentials: true,
	})

	handler := middleware.MaxBody(maxBodyBytes, c.Handler(router))
	return middleware.Recover(middleware.Logging(middleware.SecurityHeaders(handler)))
}

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on environment")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal().Msg("MONGODB_URI environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := db.Connect(ctx, mongoURI)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()
	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	log.Info().Msg("connected to MongoDB")

	if err := rdx.Init(os.Getenv("REDIS_ADDR")); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, token revocation disabled")
	}

	avatars, err := imagehost.NewLocalStore("static/userpic", "/static/userpic")
	if err != nil {
		log.Fatal().Err(err).Msg("avatar store init failed")
	}
	attachments, err := imagehost.NewLocalStore("static/chatpic", "/static/chatpic")
	if err != nil {
		log.Fatal().Err(err).Msg("attachment store init failed")
	}

	hub := realtime.NewHub(realtime.NewRegistry())
	handler := setupRouter(hub, avatars, attachments)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	<-shutdownChan

	log.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("server stopped cleanly")
}
