// Command useradd provisions a login for the API.
//
//	useradd -username alice -email alice@example.com [-password secret]
//
// When -password is omitted a random one is generated and printed once.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/solotrip/solotrip-go/internal/config"
	"github.com/solotrip/solotrip-go/internal/crypto"
	"github.com/solotrip/solotrip-go/internal/logger"
	"github.com/solotrip/solotrip-go/internal/service"
	"github.com/solotrip/solotrip-go/internal/storage"
)

func main() {
	username := flag.String("username", "", "login name (required)")
	email := flag.String("email", "", "email address (required)")
	password := flag.String("password", "", "password; generated when empty")
	length := flag.Int("length", crypto.DefaultPasswordLength, "length of a generated password")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat)

	if err := run(cfg, *username, *email, *password, *length); err != nil {
		slog.Error("useradd failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, username, email, password string, length int) error {
	if cfg.Database.Driver == "memory" {
		return fmt.Errorf("database driver %q does not persist users", cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	generated := password == ""
	if generated {
		var err error
		if password, err = crypto.GeneratePassword(length); err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
	}

	stores, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer stores.Close()

	// Registration never issues tokens.
	auth := service.NewAuthService(stores.Users, nil)
	user, err := auth.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("created user %q (id %d)\n", user.Username, user.ID)
	if generated {
		fmt.Printf("password: %s\n", password)
	}
	return nil
}
