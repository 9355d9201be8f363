package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string
var logger *zap.SugaredLogger
var reviewer string
var dataDir string

var rootCmd = &cobra.Command{
	Use:   "revu",
	Short: "Unified Python code review: syntax, lint, types, security, format, imports, docstrings",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".revu-cli")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("REVU")
		viper.AutomaticEnv()

		_ = viper.ReadInConfig()
		dataDir = viper.GetString("data_dir")
		if dataDir == "" {
			var err error
			dataDir, err = getReviewsDir()
			if err != nil {
				return fmt.Errorf("failed to resolve data directory: %w", err)
			}
		}

		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %s", err.Error())
		}

		// init logger
		l, _ := zap.NewProduction()
		logger = l.Sugar()

		// reviewer identity is optional; fall back to the login name so
		// saved reviews carry an author
		if reviewer == "" {
			if env := os.Getenv("USER"); env != "" {
				reviewer = env
			} else if env := os.Getenv("LOGNAME"); env != "" {
				reviewer = env
			}
		}

		if abs, err := filepath.Abs(dataDir); err == nil {
			dataDir = abs
		}

		applyConfigDefaults(cmd)

		logger.Infof("reviewer=%s data_dir=%s", reviewer, dataDir)

		storeAppContext(cmd, &AppContext{
			Logger:   logger,
			Reviewer: reviewer,
			DataDir:  dataDir,
		})

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.revu-cli.yaml)")

	// reviewer persistent flag (default from USER env)
	defaultReviewer := os.Getenv("USER")

	rootCmd.PersistentFlags().StringVarP(&reviewer, "reviewer", "o", defaultReviewer, "reviewer name (or set via USER env)")

	// add subcommands
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}
