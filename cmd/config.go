package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configKeyOutputFormat = "output_format"
	configKeyCacheBlocks  = "cache_blocks"
	configKeyDefaultXid   = "default_xid"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set go-apfs configuration defaults",
	Long: `Manage persistent CLI defaults (output format, block cache size,
default transaction id) stored in a go-apfs config file.

Examples:
  # Show the active configuration and its source file
  go-apfs config show

  # Set the default output format
  go-apfs config set output_format json

  # Write current defaults to ~/.go-apfs.yaml
  go-apfs config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Printf("config file: %s\n", file)
		} else {
			fmt.Println("config file: none (using built-in defaults)")
		}
		fmt.Printf("%s: %s\n", configKeyOutputFormat, viper.GetString(configKeyOutputFormat))
		fmt.Printf("%s: %d\n", configKeyCacheBlocks, viper.GetInt(configKeyCacheBlocks))
		fmt.Printf("%s: %d\n", configKeyDefaultXid, viper.GetInt64(configKeyDefaultXid))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration key and persist it to the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch key {
		case configKeyOutputFormat, configKeyCacheBlocks, configKeyDefaultXid:
			viper.Set(key, value)
		default:
			return fmt.Errorf("unknown config key %q (want one of %s, %s, %s)",
				key, configKeyOutputFormat, configKeyCacheBlocks, configKeyDefaultXid)
		}
		return writeConfigFile()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file populated with the current defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !viper.IsSet(configKeyOutputFormat) {
			viper.SetDefault(configKeyOutputFormat, "table")
		}
		if !viper.IsSet(configKeyCacheBlocks) {
			viper.SetDefault(configKeyCacheBlocks, 64)
		}
		return writeConfigFile()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configInitCmd)

	viper.SetDefault(configKeyOutputFormat, "table")
	viper.SetDefault(configKeyCacheBlocks, 64)
	viper.SetDefault(configKeyDefaultXid, 0)

	viper.SetConfigName(".go-apfs")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	// A missing config file just means built-in defaults apply; any other
	// read error (malformed YAML, permission denied) is surfaced lazily the
	// first time a command consults viper.
	_ = viper.ReadInConfig()
}

// writeConfigFile persists the current viper settings to the user's
// go-apfs config file, creating it under $HOME if none exists yet.
func writeConfigFile() error {
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	path := filepath.Join(home, ".go-apfs.yaml")
	return viper.WriteConfigAs(path)
}
