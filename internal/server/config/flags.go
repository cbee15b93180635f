package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmartins/askgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      session token validity, minutes
//	-b int      bcrypt cost factor
//	-o string   comma-separated CORS allowed origins
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with flags owned by other components
// (the -c/-config flags of the JSON overlay, the provision CLI flags).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-b", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")

	tokenValidity := fs.Int("t", 0, "token validity duration (in minutes)")
	fs.IntVar(&config.BCryptCost, "b", config.BCryptCost, "bcrypt cost factor")

	origins := fs.String("o", "", "comma-separated CORS allowed origins")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only override the validity when -t was actually given; round-tripping
	// the current value through whole minutes would truncate sub-minute
	// durations set elsewhere.
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })

	if seen["t"] {
		config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	}
	if *origins != "" {
		config.CORSAllowedOrigins = splitOrigins(*origins)
	}
}
