// Command organizer-token prints a signed bearer token for the event write endpoints.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"devevents/config"
	"devevents/internal/adapters/auth"
)

func main() {
	var (
		organizerID string
		expiry      time.Duration
	)
	flag.StringVar(&organizerID, "organizer", "", "organizer ID to embed as the token subject (required)")
	flag.DurationVar(&expiry, "expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	if organizerID == "" {
		fmt.Fprintln(os.Stderr, "-organizer is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to load config:", err)
		os.Exit(1)
	}

	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(organizerID, expiry)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to issue token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
