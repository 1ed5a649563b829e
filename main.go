package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/panyam/fermi/runtime"
	"github.com/panyam/fermi/web/server"
)

var addr = flag.String("addr", "", "Address to listen on (default: FERMI_ADDR env var or :8080)")

func main() {
	envfile := ".env"
	if os.Getenv("FERMI_ENV") == "dev" {
		envfile = ".env.dev"
	}
	// Variables already set in the environment take precedence over the file.
	if err := godotenv.Load(envfile); err != nil {
		log.Println("not loading env file: ", envfile, err)
	}

	logger := runtime.LoggerFromEnv()
	slog.SetDefault(logger)

	flag.Parse()
	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	if *addr != "" {
		cfg.Address = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	srv := &server.Server{Config: cfg, Logger: logger}
	if err := srv.Start(ctx); err != nil {
		log.Fatal(err)
	}
}
