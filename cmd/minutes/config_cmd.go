package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccowmu/minutes/internal/config"
	"github.com/ccowmu/minutes/internal/source"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure where the minutes come from",
	Long: `Interactive configuration wizard to set up the minutes source.
Creates or updates the configuration file at ~/.config/minutes/config.yaml`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	return configWizard(cmd, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
}

// ask prints a prompt with the current value and returns the answer,
// or current when the user just presses Enter
func ask(reader *bufio.Reader, w io.Writer, label, current string) (string, error) {
	prompt := label
	if current != "" {
		prompt += fmt.Sprintf(" [%s]", current)
	}
	printPrompt(w, prompt+": ")

	answer, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && answer != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

func configWizard(cmd *cobra.Command, reader *bufio.Reader, w io.Writer) error {
	printLogo(w, version)
	fmt.Fprintln(w, "Configuration Wizard")
	fmt.Fprintln(w, "====================")

	// Start from the existing config, or defaults
	existing, err := config.Load()
	if err != nil || existing == nil {
		existing = &config.Config{
			Source: config.SourceConfig{Kind: string(source.KindJSON), Timeout: config.DefaultTimeout},
			Cache:  config.CacheConfig{Dir: filepath.Join(os.Getenv("HOME"), ".cache", "minutes")},
			Search: config.SearchConfig{Backend: "auto"},
			UI:     config.UIConfig{DefaultView: "card"},
		}
	}
	cfg := *existing

	if cfg.Source.Kind, err = ask(reader, w, "Source kind (json, html, markdown)", cfg.Source.Kind); err != nil {
		return err
	}
	if cfg.Source.Location, err = ask(reader, w, "Source path or URL", cfg.Source.Location); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Source.Location) == "" {
		return fmt.Errorf("source location is required")
	}
	if cfg.Site.BaseURL, err = ask(reader, w, "Site base URL (optional)", cfg.Site.BaseURL); err != nil {
		return err
	}

	timeoutStr, err := ask(reader, w, "Fetch timeout in seconds", strconv.Itoa(cfg.Source.Timeout))
	if err != nil {
		return err
	}
	if cfg.Source.Timeout, err = strconv.Atoi(timeoutStr); err != nil || cfg.Source.Timeout <= 0 {
		fmt.Fprintf(w, "Warning: invalid timeout '%s', using default %d seconds\n", timeoutStr, config.DefaultTimeout)
		cfg.Source.Timeout = config.DefaultTimeout
	}

	if cfg.UI.DefaultView, err = ask(reader, w, "Default view (card, list)", cfg.UI.DefaultView); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Test the source
	fmt.Fprintf(w, "\nReading minutes from %s...\n", cfg.Source.Location)
	raws, err := loadDocuments(commandContext(cmd), &cfg, true)
	if err != nil {
		return fmt.Errorf("source test failed: %w", err)
	}
	printSuccess(w, fmt.Sprintf("Found %d minutes", len(raws)))

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(config.ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintln(w)
	printSuccess(w, "Configuration saved to "+config.ConfigPath())
	fmt.Fprintln(w, "\nYou can now run 'minutes' to search.")

	return nil
}
