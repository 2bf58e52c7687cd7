// Command tokengen mints HS256 bearer tokens for local development and
// integration tests, matching the claim shape the middleware requires.
//
//	tokengen -sub u1 -email u1@example.com -secret $AUTH_SECRET -ttl 1h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	sub := flag.String("sub", "dev-user", "subject identifier")
	email := flag.String("email", "", "optional email claim")
	secret := flag.String("secret", os.Getenv("AUTH_SECRET"), "HS256 signing secret (default $AUTH_SECRET)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "tokengen: a signing secret is required (-secret or $AUTH_SECRET)")
		os.Exit(2)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": *sub,
		"iat": now.Unix(),
		"exp": now.Add(*ttl).Unix(),
	}
	if *email != "" {
		claims["email"] = *email
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(raw)
}
