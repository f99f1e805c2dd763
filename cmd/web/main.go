package main

import (
	"fmt"
	"log"

	"github.com/celltrail/internal/web"
)

func main() {
	fmt.Println("=== CellTrail API ===")

	config := web.LoadConfig()

	server, err := web.NewServer(config)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
