package cmd

import (
	"fmt"
	"os"

	"github.com/sagechat/sage/internal/config"
)

// Version information (injected at build time via ldflags).
var (
	Version   = "development"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func runVersion() {
	fmt.Printf("Sage %s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)

	cfg, err := config.Load()
	if err != nil {
		return
	}
	fmt.Printf("Provider: %s\n", cfg.Provider)
	if line := keyStatusLine(cfg.Provider); line != "" {
		fmt.Println(line)
	}
}

// keyStatusLine reports whether the active provider's API key is present
// in the environment. Empty for keyless providers.
func keyStatusLine(provider string) string {
	name := providerKeyVar(provider)
	if name == "" {
		return ""
	}
	if os.Getenv(name) != "" {
		return name + ": configured"
	}
	return name + ": not set"
}

// providerKeyVar maps a provider to the environment variable its plugin
// reads for credentials. Ollama talks to a local host and needs no key.
func providerKeyVar(provider string) string {
	switch provider {
	case config.ProviderGemini, config.ProviderGoogleAI:
		return "GEMINI_API_KEY"
	case config.ProviderOllama:
		return ""
	default:
		return "OPENAI_API_KEY"
	}
}
