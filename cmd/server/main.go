package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/dmartins/askgate/internal/server"
	"github.com/dmartins/askgate/internal/server/config"
)

// loadDotenv overlays environment variables from the nearest .env file,
// if one exists. Useful for local development; production deployments set
// the environment directly.
func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func main() {
	loadDotenv()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
