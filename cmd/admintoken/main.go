// Command admintoken prints a signed admin bearer token for the admin API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/umorjyoti/trip-sub006/internal/auth"
)

func main() {
	userID := flag.String("user", "admin", "user id placed in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	nonAdmin := flag.Bool("non-admin", false, "issue a token without the admin claim")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := auth.GenerateJWT(*userID, !*nonAdmin, secret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
