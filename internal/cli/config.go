package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/informiz/chaincode/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	showDefaults bool
	initForce    bool
	initBackend  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage informiz configuration",
	Long: `Manage the informiz configuration file.

Settings are merged from, highest priority first: flags, INFORMIZ_* environment
variables (INFORMIZ_LEDGER_BACKEND, INFORMIZ_BATCH_WORKERS, ...), the config
file and built-in defaults.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()
		source := "built-in defaults"
		if !showDefaults {
			var err error
			if cfg, err = loadConfig(viper.GetViper()); err != nil {
				return err
			}
			source = "defaults"
			if used := viper.ConfigFileUsed(); used != "" {
				source = used
			}
		}
		return renderConfig(cmd.OutOrStdout(), cfg, "effective configuration ("+source+")")
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to path, or to ~/.informiz/config.yaml
when no path is given. An existing file is kept unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("find home directory: %w", err)
			}
			path = filepath.Join(home, ".informiz", "config.yaml")
		}

		cfg := model.DefaultConfig()
		if initBackend != "" {
			cfg.Ledger.Backend = initBackend
		}
		if err := writeConfigFile(path, cfg, initForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configShowCmd.Flags().BoolVar(&showDefaults, "defaults", false, "show built-in defaults, ignoring file and environment")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().StringVar(&initBackend, "backend", "", "ledger backend to write (memory, badger)")
}

// renderConfig writes cfg as YAML preceded by a comment line.
func renderConfig(w io.Writer, cfg model.Config, comment string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", comment)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// writeConfigFile validates cfg and writes it to path, creating parent
// directories. It refuses to replace an existing file unless force is set.
func writeConfigFile(path string, cfg model.Config, force bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := renderConfig(&buf, cfg, "informiz configuration; see `informiz config show` for the merged view"); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}
