package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ordna/internal/config"
	"ordna/internal/document"
	mcpserver "ordna/internal/mcp"
	"ordna/internal/service"
	"ordna/internal/storage"
)

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It shares the app's database; destructive tools wait for approval from
// the running app through the mcp_approvals table.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("[MCP] config: %v, using defaults", err)
		cfg = config.Default()
	}

	db, err := storage.New(cfg.DBPath(), cfg.MirrorDir())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	store := storage.NewPageStore(db)
	emitter := service.NopEmitter{}

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:              emitter,
		Pages:                service.NewPageService(store, emitter, document.WithIndentStep(cfg.Editor.IndentStepPx)),
		Trash:                service.NewTrashService(store, emitter),
		IndentStep:           cfg.Editor.IndentStepPx,
		PreserveInlineStyles: cfg.Editor.PreserveInlineStyles,
		ApprovalDB:           db.Conn(),
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
