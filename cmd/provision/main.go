// Command provision creates an account in the gateway's store: an
// administrative bootstrap run once per deployment, or ad hoc to add
// accounts without going through the HTTP surface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/dmartins/askgate/internal/common"
	"github.com/dmartins/askgate/internal/flagx"
	"github.com/dmartins/askgate/internal/server/auth"
	"github.com/dmartins/askgate/internal/server/config"
	"github.com/dmartins/askgate/internal/server/storage"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type options struct {
	login    string
	email    string
	role     string
	password string
}

// parseOptions reads the provision-specific flags. The config package owns
// its own flags, so only the flags listed here are parsed.
func parseOptions(cfg *config.Config) options {
	args := flagx.FilterArgs(os.Args[1:], []string{"-l", "-e", "-r", "-p"})

	fs := flag.NewFlagSet("provision", flag.ContinueOnError)

	opts := options{}
	fs.StringVar(&opts.login, "l", cfg.AdminUsername, "login name for the new account")
	fs.StringVar(&opts.email, "e", cfg.AdminEmail, "email for the new account")
	fs.StringVar(&opts.role, "r", cfg.AdminRole, "role label for the new account")
	fs.StringVar(&opts.password, "p", "", "password (prompted interactively when omitted)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	return opts
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stdout, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	opts := parseOptions(cfg)

	if opts.password == "" {
		pw, err := promptPassword()
		if err != nil {
			log.Fatalf("password prompt failed: %v", err)
		}
		opts.password = pw
	}
	if strings.TrimSpace(opts.password) == "" {
		log.Fatal("empty password refused")
	}

	store, err := storage.NewPostgresManager(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	issuer := auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	service := auth.NewService(store, issuer, cfg)

	account, err := service.Provision(ctx, opts.login, opts.email, opts.password, opts.role)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			log.Fatalf("account %q / %q already exists", opts.login, opts.email)
		}
		log.Fatalf("provisioning failed: %v", err)
	}

	fmt.Printf("provisioned account id=%s login=%s role=%s\n", account.ID, account.Username, account.Role)
}
