package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/signup/internal/config"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/ui/signup"
	"github.com/zjrosen/signup/internal/watcher"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so the
	// OSC 11 reply cannot land in the text input.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version     = "dev"
	cfgFile     string
	secretsFile string
	debugFlag   bool
	cfg         config.Config
)

var rootCmd = &cobra.Command{
	Use:   "signup",
	Short: "Sign up by name against a shared registry table",
	Long: `signup shows everyone registered in the table and asks for your name.
Returning names are welcomed back; new names are added to the table.

The registry lives in a hosted table (SUPABASE_URL / SUPABASE_KEY) or in a
local SQLite file when backend is "sqlite".`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .signup/config.yaml or ~/.config/signup/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&secretsFile, "secrets", config.DefaultSecretsPath,
		"TOML file holding SUPABASE_URL and SUPABASE_KEY")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also SIGNUP_DEBUG)")
	rootCmd.PersistentFlags().String("backend", "", `registry backend: "remote" or "sqlite"`)
	rootCmd.PersistentFlags().String("table", "", "registry table name")

	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("table", rootCmd.PersistentFlags().Lookup("table"))
}

func initConfig() {
	setDefaults(viper.GetViper(), config.Defaults())

	viper.SetEnvPrefix("SIGNUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .signup/config.yaml (current directory)
		// 2. ~/.config/signup/config.yaml (user config)
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			viper.SetConfigFile(config.DefaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "signup"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .signup/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(config.DefaultConfigPath); writeErr == nil {
				viper.SetConfigFile(config.DefaultConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setDefaults registers every key so env overrides and Unmarshal see them.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("table", d.Table)
	v.SetDefault("placeholder_data", d.PlaceholderData)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("remote.url", d.Remote.URL)
	v.SetDefault("remote.key", d.Remote.Key)
	v.SetDefault("remote.schema", d.Remote.Schema)
	v.SetDefault("remote.timeout", d.Remote.Timeout)
	v.SetDefault("sqlite.path", d.SQLite.Path)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// setup starts debug logging and resolves secrets before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	if debugFlag || os.Getenv("SIGNUP_DEBUG") != "" {
		logPath := os.Getenv("SIGNUP_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		if logPath == "-" {
			log.InitWriter(cmd.ErrOrStderr())
		} else {
			cleanup, err := log.Init(logPath)
			if err != nil {
				return fmt.Errorf("initializing logging: %w", err)
			}
			cobra.OnFinalize(cleanup)
		}
		if level := os.Getenv("SIGNUP_LOG_LEVEL"); level != "" {
			log.SetMinLevel(log.ParseLevel(level))
		}
		log.Info(log.CatConfig, "signup starting", "command", cmd.Name(), "config", viper.ConfigFileUsed())
	}

	secrets, err := config.LoadSecrets(secretsFile)
	if err != nil {
		return err
	}
	secrets.Apply(&cfg)
	return nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []signup.Option{signup.WithEvents(a.events)}
	if l := log.NewListener(ctx); l != nil {
		opts = append(opts, signup.WithLogs(l))
	}

	// pick up rows written by other signup processes sharing the same file
	if cfg.Backend == config.BackendSQLite {
		w, err := watcher.New(watcher.DefaultConfig(cfg.SQLite.Path))
		if err != nil {
			return err
		}
		changes, err := w.Start(ctx)
		if err != nil {
			log.ErrorErr(log.CatDB, "registry watcher unavailable", err)
		} else {
			defer func() { _ = w.Stop() }()
			opts = append(opts, signup.WithChanges(changes))
		}
	}

	zone.NewGlobal()
	model := signup.New(ctx, a.workflow, opts...)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
