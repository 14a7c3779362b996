package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"bookcatalog/internal/client"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

const userAgent = "bookcatalog-shelf/1.0"

// CLI is the command tree of the shelf client.
type CLI struct {
	Config    string `help:"Path to a config file (default ~/.config/bookcatalog/config.yaml)" type:"path"`
	APIURL    string `name:"api-url" help:"Catalog API base URL (config key api_url)"`
	TokenFile string `help:"Where the session token is kept (config key token_file)" type:"path"`
	Debug     bool   `help:"Verbose logging"`

	Signup SignupCmd `cmd:"" help:"Create an account and start a session"`
	Login  LoginCmd  `cmd:"" help:"Start a session"`
	Logout LogoutCmd `cmd:"" help:"End the current session"`
	Books  BooksCmd  `cmd:"" help:"List the catalog, optionally searched, filtered and sorted"`
	Liked  LikedCmd  `cmd:"" help:"List the books you liked"`
	Like   LikeCmd   `cmd:"" help:"Like a book"`
	Unlike UnlikeCmd `cmd:"" help:"Remove a like"`
	Browse BrowseCmd `cmd:"" help:"Browse the catalog interactively"`
	Book   BookCmd   `cmd:"" help:"Manage catalog entries"`
}

// app is bound into every command's Run method.
type app struct {
	ctx     context.Context
	session *client.Session
	out     io.Writer
	in      io.Reader
}

// Execute runs the kong-based CLI.
func Execute() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("shelf"),
		kong.Description("Browse, search and like books in a bookcatalog server."),
		kong.UsageOnError(),
	)

	initLogging(os.Stderr, cli.Debug)

	v := viper.New()
	if err := initConfig(v, cli.Config); err != nil {
		slog.Error("Failed to read config", "error", err)
		os.Exit(1)
	}
	applyFlags(v, &cli)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		ctx:     ctx,
		session: newSession(v, slog.Default()),
		out:     os.Stdout,
		in:      os.Stdin,
	}
	if err := a.session.Restore(ctx); err != nil {
		slog.Warn("Could not restore session", "error", err)
	}

	if err := kctx.Run(a); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := humanlog.NewHandler(w, &humanlog.Options{Level: level})
	slog.SetDefault(slog.New(handler))
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bookcatalog")
	}
	return "."
}

// initConfig layers defaults, an optional YAML file and BOOKCATALOG_*
// environment variables. A missing default config file is fine; a missing
// explicit one is not.
func initConfig(v *viper.Viper, file string) error {
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("token_file", filepath.Join(configDir(), "token"))
	v.SetDefault("rate_limit", 5.0)

	v.SetEnvPrefix("BOOKCATALOG")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	slog.Debug("Loaded config", "file", v.ConfigFileUsed())
	return nil
}

func applyFlags(v *viper.Viper, cli *CLI) {
	if cli.APIURL != "" {
		v.Set("api_url", cli.APIURL)
	}
	if cli.TokenFile != "" {
		v.Set("token_file", cli.TokenFile)
	}
}

func newSession(v *viper.Viper, log *slog.Logger) *client.Session {
	opts := []client.Option{client.WithUserAgent(userAgent)}
	if rps := v.GetFloat64("rate_limit"); rps > 0 {
		opts = append(opts, client.WithRateLimit(rps, 1))
	}
	api := client.NewClient(v.GetString("api_url"), opts...)
	store := client.NewTokenStore(v.GetString("token_file"))
	return client.NewSession(api, store, log)
}
