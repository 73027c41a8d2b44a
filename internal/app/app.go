// Package app wires configuration, logging, the auth core, and the upstream
// completion client into a single application object.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/bobmcallan/papergate/internal/auth"
	"github.com/bobmcallan/papergate/internal/clients/gemini"
	"github.com/bobmcallan/papergate/internal/clients/glm"
	"github.com/bobmcallan/papergate/internal/common"
	"github.com/bobmcallan/papergate/internal/interfaces"
	"github.com/bobmcallan/papergate/internal/services/relay"
)

// App holds all initialized services and clients.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Auth        *auth.Service
	Completion  interfaces.CompletionClient
	Relay       *relay.Service
	StartupTime time.Time
}

// NewApp initializes configuration, logging, the auth core, and the
// configured completion backend. configPath may be empty, in which case
// PAPERGATE_CONFIG and then papergate.toml are tried.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	if configPath == "" {
		configPath = os.Getenv("PAPERGATE_CONFIG")
	}
	if configPath == "" {
		configPath = "papergate.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	// Without a configured master secret, only the hourly temporal key (and
	// this process's generated secret, logged nowhere) can mint tokens.
	if config.Auth.MasterKey == "" && config.Auth.MasterKeyHash == "" {
		key, err := randomHex(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate master key: %w", err)
		}
		config.Auth.MasterKey = key
		logger.Warn().Msg("No master key configured - generated an ephemeral one; clients must use the temporal key")
	}

	completion, err := buildCompletionClient(config, logger)
	if err != nil {
		return nil, err
	}
	if completion == nil {
		logger.Warn().Str("backend", config.Relay.Backend).Msg("Completion backend not configured - protected operations will fail")
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Auth:        auth.NewService(&config.Auth, logger),
		Completion:  completion,
		Relay:       relay.NewService(completion, &config.Relay, logger),
		StartupTime: startupStart,
	}

	logger.Info().
		Str("backend", config.Relay.Backend).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// buildCompletionClient constructs the upstream client named by config.
// Returns nil (not an error) when the backend's API key is absent, so the
// gateway can still serve issuance and health.
func buildCompletionClient(config *common.Config, logger *common.Logger) (interfaces.CompletionClient, error) {
	switch config.Relay.Backend {
	case "gemini":
		if config.Clients.Gemini.APIKey == "" {
			return nil, nil
		}
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		return client, nil

	case "glm", "":
		if config.Clients.GLM.APIKey == "" {
			return nil, nil
		}
		return glm.NewClient(config.Clients.GLM.APIKey,
			glm.WithLogger(logger),
			glm.WithBaseURL(config.Clients.GLM.BaseURL),
			glm.WithModel(config.Clients.GLM.Model),
			glm.WithRateLimit(config.Clients.GLM.RateLimit),
			glm.WithTimeout(config.Clients.GLM.GetTimeout()),
		), nil

	default:
		return nil, fmt.Errorf("unknown relay backend %q", config.Relay.Backend)
	}
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
