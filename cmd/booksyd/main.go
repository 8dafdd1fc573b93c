package main

import (
	"log"

	"github.com/booksyhq/booksy/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ booksyd failed to start: %v", err)
	}
}
