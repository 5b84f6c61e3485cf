// Package main AutoRAG API Server
//
//	@title			AutoRAG API
//	@version		1.0
//	@description	Document ingestion and retrieval-augmented question answering
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"log"

	"autorag/internal/config"
	"autorag/internal/server"
)

func main() {
	log.Println("Starting AutoRAG server...")

	cfg := config.Load()

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
