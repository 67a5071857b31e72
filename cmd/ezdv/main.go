// cmd/ezdv/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nhath/ezdv/internal/config"
	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/history"
	"github.com/nhath/ezdv/internal/ui"
)

// tokenSkew is how long before expiry a cached Azure CLI token is refreshed.
const tokenSkew = 5 * time.Minute

func main() {
	envName := flag.String("env", "", "Environment to connect to (defaults to the current one)")
	debug := flag.Bool("debug", false, "Enable debug logging to debug.log")
	vim := flag.Bool("vim", false, "Add vim motions (hjkl) to the key bindings")
	flag.Parse()

	if *debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			fmt.Printf("fatal: could not open debug log: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	// A missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *vim {
		cfg.VimKeys = true
	}

	if url := os.Getenv("DATAVERSE_URL"); url != "" {
		if err := cfg.AddEnvironment(config.Environment{URL: url, TenantID: os.Getenv("DATAVERSE_TENANT_ID")}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add environment: %v\n", err)
			os.Exit(1)
		}
	}

	env, err := pickEnvironment(cfg, *envName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	svc, err := connect(*env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}

	historyStore, err := history.NewStore()
	if err != nil {
		// History is optional; the UI shows it as disabled
		log.Printf("history: %v", err)
		historyStore = nil
	} else {
		defer historyStore.Close()
	}

	model := ui.NewModel(cfg, env.Name, svc, connect, historyStore)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func pickEnvironment(cfg *config.Config, name string) (*config.Environment, error) {
	if name != "" {
		return cfg.GetEnvironment(name)
	}
	env, ok := cfg.CurrentEnvironment()
	if !ok {
		path, _ := config.ConfigPath()
		return nil, fmt.Errorf("no environment configured: set DATAVERSE_URL or add one to %s", path)
	}
	return env, nil
}

// connect builds a client for env. DATAVERSE_TOKEN wins, then an app
// registration secret, then the Azure CLI login.
func connect(env config.Environment) (ui.Service, error) {
	if env.URL == "" {
		return nil, fmt.Errorf("environment %s has no url", env.Name)
	}
	var tokens dataverse.TokenSource
	switch {
	case os.Getenv("DATAVERSE_TOKEN") != "":
		tokens = dataverse.StaticTokenSource(os.Getenv("DATAVERSE_TOKEN"))
	case env.ClientID != "" && env.ClientSecret != "":
		src := dataverse.NewClientCredentialsTokenSource(env.URL, env.TenantID, env.ClientID, env.ClientSecret)
		tokens = dataverse.NewCachingTokenSource(src, tokenSkew)
	default:
		tokens = dataverse.NewCachingTokenSource(dataverse.NewAzureCLITokenSource(env.URL, env.TenantID), tokenSkew)
	}
	log.Printf("connecting to %s", env.URL)
	return dataverse.NewClient(env.URL, tokens), nil
}
