package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/furiarock-backend/pkg/auth"
	"github.com/angelmondragon/furiarock-backend/pkg/config"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
)

// admin-token prints a bearer token for the back office endpoints. Only the JWT
// settings are read so it can run from a laptop with the production secret.
func main() {
	subject := flag.String("subject", "", "operator identity stored in the token subject (e.g. an email)")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to FURIA_JWT_ADMIN_TTL")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "admin-token"})
	ctx := context.Background()

	_ = godotenv.Load()

	var cfg config.JWTConfig
	if err := config.LoadSection(&cfg); err != nil {
		logg.Error(ctx, "failed to load jwt config", err)
		os.Exit(1)
	}
	if *ttl > 0 {
		cfg.AdminTokenTTL = *ttl
	}

	token, err := auth.MintAdminToken(cfg, time.Now(), *subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mint token: %v\n", err)
		os.Exit(1)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"subject":    *subject,
		"expires_in": cfg.AdminTokenTTL.String(),
	}), "admin token minted")
	fmt.Println(token)
}
