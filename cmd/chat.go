package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sagechat/sage/internal/app"
	"github.com/sagechat/sage/internal/config"
	"github.com/sagechat/sage/internal/log"
)

// runChat starts the interactive terminal conversation.
func runChat(logger log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	orch := a.NewOrchestrator()

	fmt.Println(a.Persona.Greeting)
	fmt.Println(`Type /help for commands, /exit to quit.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			// EOF (Ctrl+D) ends the conversation
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case input == "/exit", input == "/quit":
			return nil
		case input == "/clear":
			orch.Reset()
			fmt.Println("Conversation history cleared.")
			continue
		case input == "/help":
			fmt.Println("Commands: /clear (reset history), /exit or /quit (leave), /help")
			continue
		case strings.HasPrefix(input, "/"):
			fmt.Printf("Unknown command %q. Type /help for commands.\n", input)
			continue
		}

		answer, err := orch.Submit(ctx, input)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println()
				return nil
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Printf("\n%s: %s\n", a.Persona.Name, a.Persona.FormatWithSources(answer.Answer, answer.Sources))
	}
}
