package main

import (
	"log"

	"github.com/dkolesni/itemstash/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalln("Failed to initialize the application:", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		log.Fatalln("Application terminated with error:", err)
	}
}
