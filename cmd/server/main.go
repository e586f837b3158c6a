package main

import (
	"log"

	"tapify/internal/app"
)

func main() {
	server := app.NewServer()
	log.Fatal(server.Start())
}
