package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/informiz/chaincode/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "informiz",
	Short: "informiz - fact-checking reputation ledger contracts",
	Long: `informiz hosts the fact-checker, source, reference-text and hypothesis
contracts on top of an embedded key-value ledger.

Every invocation runs in a single ledger transaction: the record is read,
one change is applied and the full record is written back. Results are
printed as JSON.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("informiz v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.informiz/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("backend", "", "ledger backend (memory, badger)")
	rootCmd.PersistentFlags().String("ledger-path", "", "badger data directory")
	rootCmd.PersistentFlags().String("namespace", "", "suffix appended to generated identifiers")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("ledger.backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("ledger.path", rootCmd.PersistentFlags().Lookup("ledger-path"))
	_ = viper.BindPFlag("ledger.namespace", rootCmd.PersistentFlags().Lookup("namespace"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".informiz"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers flags, INFORMIZ_* variables and the config file over
// model.DefaultConfig.
func loadConfig(v *viper.Viper) (model.Config, error) {
	def := model.DefaultConfig()
	v.SetDefault("ledger.backend", def.Ledger.Backend)
	v.SetDefault("ledger.path", def.Ledger.Path)
	v.SetDefault("ledger.sync_writes", def.Ledger.SyncWrites)
	v.SetDefault("ledger.namespace", def.Ledger.Namespace)
	v.SetDefault("batch.workers", def.Batch.Workers)
	v.SetDefault("batch.rate", def.Batch.Rate)
	v.SetDefault("batch.burst", def.Batch.Burst)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.encoding", def.Log.Encoding)

	v.SetEnvPrefix("INFORMIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return model.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// newLogger builds a production zap logger writing to stderr. verbose forces
// debug level.
func newLogger(cfg model.LogConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.Encoding != "" {
		zcfg.Encoding = cfg.Encoding
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	if verbose {
		zcfg.Level.SetLevel(zap.DebugLevel)
	}
	return zcfg.Build()
}
