// Package cmd provides the sage CLI commands.
//
// Commands:
//   - chat: interactive conversation in the terminal
//   - ask: one-shot question, answer to stdout
//   - serve: HTTP API server
//   - ingest: load a JSONL passage corpus into the store
//
// Signal handling and graceful shutdown run via context cancellation in
// every long-lived command.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sagechat/sage/internal/log"
)

// Execute is the entry point for the sage CLI.
func Execute() error {
	// Provider API keys commonly live in a local .env during development.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "chat":
		return runChat(logger)
	case "ask":
		return runAsk(logger, os.Args[2:])
	case "serve":
		return runServe(logger, os.Args[2:])
	case "ingest":
		return runIngest(logger, os.Args[2:])
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Sage - retrieval-augmented persona chat")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sage chat               Start interactive chat mode")
	fmt.Println("  sage ask <question>     Ask a single question")
	fmt.Println("  sage serve [addr]       Start HTTP API server (default: 127.0.0.1:3400)")
	fmt.Println("  sage ingest <file>      Ingest a JSONL passage corpus")
	fmt.Println("  sage --version          Show version information")
	fmt.Println("  sage --help             Show this help")
	fmt.Println()
	fmt.Println("Chat commands (in interactive mode):")
	fmt.Println("  /help                   Show available commands")
	fmt.Println("  /clear                  Clear conversation history")
	fmt.Println("  /exit, /quit            Exit")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  OPENAI_API_KEY          API key for the default openai provider")
	fmt.Println("  GEMINI_API_KEY          API key when provider is gemini")
	fmt.Println("  DATABASE_URL            Postgres URL override")
	fmt.Println("  DEBUG                   Enable debug logging")
}
