package main

import (
	"github.com/joho/godotenv"

	"github.com/pritamkumarbishwas/backend/internal/app"
)

func main() {
	_ = godotenv.Load()
	app.Run()
}
