package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/canteen-qr-api/cmd/app"
)

// @title                       Canteen QR API
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	if err := app.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "canteen-qr-api: %v\n", err)
		os.Exit(1)
	}
}
