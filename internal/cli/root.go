// Package cli implements the nttl command tree. Commands are wired against
// the backend client and the core services in the root command's
// PersistentPreRunE, so every subcommand starts with a resolved session.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/notimetolie/nttl-cli/internal/core/ports"
	"github.com/notimetolie/nttl-cli/internal/core/service"
	"github.com/notimetolie/nttl-cli/internal/infrastructure/api"
	"github.com/notimetolie/nttl-cli/internal/infrastructure/config"
	"github.com/notimetolie/nttl-cli/internal/infrastructure/tokenstore"
	"github.com/notimetolie/nttl-cli/pkg/logger"
)

var (
	// Global flags
	verbose bool
	apiFlag string

	cfg     *config.Config
	log     zerolog.Logger
	store   ports.TokenStore
	client  *api.Client
	session *service.SessionService
	reviews *service.ModerationService
	agents  *service.AIService

	// closeStore releases the token store backend, when it holds one.
	closeStore func() error
)

// sessionTokens breaks the construction cycle between the client and the
// session service: the client needs a token source before the session
// exists, the session needs the client to resolve identities.
type sessionTokens struct {
	session *service.SessionService
}

func (s *sessionTokens) Token() (string, bool) {
	if s.session == nil {
		return "", false
	}
	return s.session.Token()
}

var rootCmd = &cobra.Command{
	Use:   "nttl",
	Short: "Terminal client for the No Time To Lie knowledge base",
	Long: `nttl is the terminal client for the No Time To Lie knowledge base.

It talks to the backend REST API and mirrors the web client: browse and
edit blocks and learning paths, propose and moderate edit suggestions,
search, and drive AI content jobs.

Sessions persist between runs. Log in once with "nttl login"; the token is
stored locally (file by default, redis via NTTL_TOKEN_BACKEND=redis) and
picked up silently on the next invocation.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeStore != nil {
			return closeStore()
		}
		return nil
	},
}

// setup loads configuration, initialises logging and wires the services.
// It also resolves the stored session so subcommands see the final
// authenticated or anonymous state, never the unresolved one.
func setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	loaded, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg = loaded
	if apiFlag != "" {
		cfg.APIURL = apiFlag
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log = logger.Init(logger.Options{Level: level, Pretty: cfg.LogPretty})

	if store, closeStore, err = openTokenStore(ctx, cfg); err != nil {
		return fmt.Errorf("opening token store: %w", err)
	}

	tokens := &sessionTokens{}
	client, err = api.NewClient(api.Config{
		BaseURL: cfg.APIURL,
		Tokens:  tokens,
		Timeout: cfg.Timeout,
		Logger:  &log,
	})
	if err != nil {
		return err
	}

	session = service.NewSessionService(store, client, log)
	tokens.session = session
	reviews = service.NewModerationService(client, log)
	agents = service.NewAIService(client, cfg.AI.PollInterval, log)

	session.Resolve(ctx)
	return nil
}

func openTokenStore(ctx context.Context, cfg *config.Config) (ports.TokenStore, func() error, error) {
	switch cfg.Token.Backend {
	case "file", "":
		path, err := cfg.TokenFilePath()
		if err != nil {
			return nil, nil, err
		}
		return tokenstore.NewFileStore(path), nil, nil
	case "redis":
		rs, err := tokenstore.NewRedisStore(ctx, tokenstore.RedisConfig{
			Addr: cfg.Token.Redis.Addr,
			DB:   cfg.Token.Redis.DB,
			Key:  cfg.Token.Redis.Key,
		})
		if err != nil {
			return nil, nil, err
		}
		return rs, rs.Close, nil
	case "memory":
		return tokenstore.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown token backend %q", cfg.Token.Backend)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "Backend base URL (overrides NTTL_API_URL)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(suggestionsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(aiCmd)
}

// Execute runs the command tree with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
