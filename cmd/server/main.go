// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/ninecard/golf/internal/cache"
	"github.com/ninecard/golf/internal/database"
	"github.com/ninecard/golf/internal/handlers"
	"github.com/ninecard/golf/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// The historian and archive are optional: the server runs without them.
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("historian disabled: %v", err)
	}
	if err := database.ConnectDB(); err != nil {
		logger.Warnf("round archive disabled: %v", err)
	}

	srv := handlers.NewGameServer(logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))
	mux.Handle("/rooms", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListRoomsHandler(srv),
	)))
	mux.HandleFunc("/healthz", handlers.HealthzHandler())

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
