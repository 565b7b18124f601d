// hosttoken выпускает токен для JSON API хост-приложения.
//
//	go run ./cmd/hosttoken -subject shop-backend -role host -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"kassa_backend/internal/auth"
	"kassa_backend/internal/config"
)

func main() {
	subject := flag.String("subject", "", "имя клиента API")
	role := flag.String("role", auth.RoleHost, "роль: host или viewer")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "срок действия токена")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "-subject is required")
		os.Exit(2)
	}

	cfg := config.GetConfig()
	if cfg.Auth.APISecret == "" {
		fmt.Fprintln(os.Stderr, "auth.api_secret is not configured")
		os.Exit(1)
	}

	token, err := auth.IssueToken(cfg.Auth.APISecret, *subject, *role, *ttl, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
