package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/vocatype/internal/api"
	"github.com/verte-zerg/vocatype/internal/config"
	"github.com/verte-zerg/vocatype/internal/logger"
)

var serveAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the review and summary HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", config.DefaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	a := current
	addr := a.env.Addr
	if os.Getenv(config.EnvAddr) == "" && a.file.Server.Addr != nil {
		addr = *a.file.Server.Addr
	}
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}

	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	srv := api.NewServer(a.reviewService(st), logger.FromContext(cmd.Context()), a.file.Server.AllowedOrigins)
	if err := srv.ListenAndServe(cmd.Context(), addr); err != nil && !isCanceled(err) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# vocatype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q               # Language code
# words = %d              # Words per chapter
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# focus-weak = false      # Bias practice toward keys with many errors
# weak-top = %d           # Number of weak keys to focus on
# weak-factor = %.1f      # Weight factor for weak keys
# weak-window = %d        # Recent sessions used for weak keys and missed words

[review]
# user-id = %d            # Learner ID
# limit = %d              # Cards per review
# remind-every = "1h"     # Reminder interval

[server]
# addr = %q
# allowed-origins = ["http://localhost:3000"]

[log]
# level = "info"          # debug, info, warn, error
`,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultUserID,
		defaultReviewLimit,
		config.DefaultAddr,
	)
}
