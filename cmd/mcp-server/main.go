// Package main implements the MCP server for the daylist task tracker.
//
// The server loads the persisted store through the configured snapshot
// backend and exposes project, task, and statistics tools over stdio
// JSON-RPC (Model Context Protocol).
//
// Environment variables:
//   - DAYLIST_DATA_DIR: data directory (default: <user config dir>/daylist)
//   - DAYLIST_STORAGE_BACKEND: "json" (default), "sqlite", or "postgres"
//   - DAYLIST_JSON_PATH, DAYLIST_SQLITE_PATH, DAYLIST_POSTGRES_URL: backend paths
package main

import (
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/daylist-app/daylist/internal/ident"
	"github.com/daylist-app/daylist/internal/mcpserver"
	"github.com/daylist-app/daylist/internal/storage"
	"github.com/daylist-app/daylist/internal/tracker"
)

func run() int {
	errLogger := log.New(os.Stderr, "[daylist-mcp] ", log.LstdFlags)

	dataDir, err := storage.ResolveDataDir()
	if err != nil {
		errLogger.Printf("Failed to resolve data directory: %v", err)
		return 1
	}

	backend, err := storage.GetBackend(dataDir)
	if err != nil {
		errLogger.Printf("Failed to configure storage backend: %v", err)
		return 1
	}

	tr, err := tracker.New(backend, ident.NewUUIDGenerator(), tracker.SystemClock{})
	if err != nil {
		errLogger.Printf("Failed to load tracker state: %v", err)
		return 1
	}

	srv := mcpserver.NewServer(tr)
	if err := server.ServeStdio(srv, server.WithErrorLogger(errLogger)); err != nil {
		errLogger.Printf("Server error: %v", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run())
}
