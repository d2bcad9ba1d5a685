package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/luxiangze/spider-silkome/internal/predict"
)

// initViper loads ~/.spidercall.yaml and registers the prediction
// threshold defaults. Missing config files are fine.
func initViper() {
	viper.SetDefault("predict.positive_threshold", 0.75)
	viper.SetDefault("predict.min_length", 1000)
	viper.SetDefault("predict.max_length", 100000)
	viper.SetDefault("predict.extension_length", 10000)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigName(".spidercall")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	_ = viper.ReadInConfig()
}

// configDefaults returns the prediction thresholds from configuration,
// used as flag defaults.
func configDefaults() predict.Config {
	return predict.Config{
		PositiveThreshold: viper.GetFloat64("predict.positive_threshold"),
		MinLength:         viper.GetInt64("predict.min_length"),
		MaxLength:         viper.GetInt64("predict.max_length"),
		ExtensionLength:   viper.GetInt64("predict.extension_length"),
	}
}

func runConfig(args []string) int {
	initViper()

	cmd := newConfigCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage spidercall configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.spidercall.yaml.",
		Example: `  spidercall config                            # show all config
  spidercall config set predict.min_length 500     # lower the length floor
  spidercall config get predict.positive_threshold # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.spidercall.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		viper.Set(key, true)
	case "false", "no", "off":
		viper.Set(key, false)
	default:
		viper.Set(key, value)
	}

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".spidercall.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
