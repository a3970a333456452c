package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/qntx-ctags/am"
	"github.com/teranos/qntx-ctags/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage qntx-ctags configuration",
	Long: `am - Manage qntx-ctags configuration ("I am")

Display and check the configuration.

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.qntx/ctags.toml)
3. Project config (ctags.toml, searched upwards from the working directory)
4. Environment variables (QNTX_CTAGS_* prefix, e.g. QNTX_CTAGS_CTAGS_EXECUTABLE)

Examples:
  qntx-ctags am show                    # Show current configuration
  qntx-ctags am show --format json      # Show configuration in JSON format
  qntx-ctags am get ctags.executable    # Get specific config value
  qntx-ctags am validate                # Validate current configuration
  qntx-ctags am where                   # Show where each value comes from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration merged from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., ctags.executable, discovery.walker)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long: `Validate the effective configuration and report keys in the config
files that qntx-ctags does not know (usually typos).`,
	RunE: runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade, which files were found, and which
source every effective value comes from.`,
	RunE: runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	out := cmd.OutOrStdout()

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# qntx-ctags configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# qntx-ctags configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}

	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if _, err := loadConfig(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if !am.GetViper().IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	out := cmd.OutOrStdout()

	var warnings int
	for _, path := range am.ConfigPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		unknown, err := am.UnknownKeys(path)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			fmt.Fprintln(out, pterm.Warning.Sprintf("%s: unknown key %q", path, key))
			warnings++
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	if warnings > 0 {
		fmt.Fprintln(out, pterm.Success.Sprintf("Configuration is valid (%d unknown keys ignored)", warnings))
	} else {
		fmt.Fprintln(out, pterm.Success.Sprint("Configuration is valid"))
	}
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [USER]     ~/.qntx/ctags.toml")
	fmt.Fprintln(out, "  3. [PROJECT]  ./ctags.toml (searches up directories)")
	fmt.Fprintln(out, "  4. [ENV]      QNTX_CTAGS_* environment variables")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Config files:")
	for _, path := range am.ConfigPaths() {
		status := "missing"
		if _, err := os.Stat(path); err == nil {
			status = "found"
		}
		fmt.Fprintf(out, "  %-7s %s\n", status, path)
	}
	fmt.Fprintln(out)

	sourceOrder := []am.ConfigSource{
		am.SourceDefault,
		am.SourceUser,
		am.SourceProject,
		am.SourceEnvironment,
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range sourceOrder {
		var settings []am.SettingInfo
		for _, setting := range intro.Settings {
			if setting.Source == source {
				settings = append(settings, setting)
			}
		}
		if len(settings) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n%s: %d settings\n", source, len(settings))
		for _, setting := range settings {
			valueStr := fmt.Sprintf("%v", setting.Value)
			if len(valueStr) > 50 {
				valueStr = valueStr[:47] + "..."
			}
			if source == am.SourceDefault {
				fmt.Fprintf(out, "  %s = %s\n", setting.Key, valueStr)
			} else {
				fmt.Fprintf(out, "  %s = %s  (%s)\n", setting.Key, valueStr, setting.SourcePath)
			}
		}
	}

	return nil
}
