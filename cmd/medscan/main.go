package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-medscan/internal/client"
	"go-medscan/internal/config"
	"go-medscan/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "medscan",
		Short: "Upload prescriptions and medicine strips for analysis",
		Long: `medscan submits prescription and medicine-strip images to a remote
analysis service and renders the detected medicines, dosages, and OCR text.

It validates files before any network activity, reports upload progress,
and normalizes the service's historically inconsistent response shapes
into one stable result.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/medscan/config.yaml)")
	rootCmd.PersistentFlags().String("api-base", "", "base URL of the analysis service")
	rootCmd.PersistentFlags().String("token", "", "bearer token for the analysis service")
	rootCmd.PersistentFlags().String("token-file", "", "file holding the bearer token")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-base"))
	_ = viper.BindPFlag("api.token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("api.token_file", rootCmd.PersistentFlags().Lookup("token-file"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(prescriptionCmd())
	rootCmd.AddCommand(stripCmd())
	rootCmd.AddCommand(reminderCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(fmt.Sprintf("%s/.config/medscan", home))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MEDSCAN")
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if level := viper.GetString("logging.level"); level != "" {
		os.Setenv("LOG_LEVEL", level)
	}
	logger.SetTextFormatter()

	return nil
}

// loadConfig merges the environment-driven defaults with any viper-bound
// overrides from flags or the config file
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if base := viper.GetString("api.base_url"); base != "" {
		cfg.BaseURL = base
	}
	if tokenFile := viper.GetString("api.token_file"); tokenFile != "" {
		cfg.TokenFile = tokenFile
	}
	return cfg, nil
}

// tokenProvider assembles the credential lookup chain: explicit flag, then
// environment, then token file. Missing credentials are not an error.
func tokenProvider(cfg *config.Config) client.TokenProvider {
	return client.TokenChain{
		client.StaticToken(viper.GetString("api.token")),
		client.EnvToken{Key: "MEDSCAN_TOKEN"},
		client.FileToken{Path: cfg.TokenFile},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the medscan version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "medscan", version)
		},
	}
}
