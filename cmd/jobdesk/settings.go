package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdesk/internal/session"
)

var (
	setAnthropicKey string
	setAdzunaID     string
	setAdzunaKey    string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the stored API keys",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store API keys",
	Long:  "Stores the given keys. Keys that are not passed keep their stored value.",
	RunE:  runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&setAnthropicKey, "anthropic-key", "", "Anthropic API key")
	settingsSetCmd.Flags().StringVar(&setAdzunaID, "adzuna-id", "", "Adzuna App ID")
	settingsSetCmd.Flags().StringVar(&setAdzunaKey, "adzuna-key", "", "Adzuna App Key")

	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	sess, closeFn, err := bootstrap(setupLogger(debug))
	if err != nil {
		return err
	}
	defer closeFn()

	printCredentials(sess)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("anthropic-key") && !flags.Changed("adzuna-id") && !flags.Changed("adzuna-key") {
		return fmt.Errorf("pass at least one of --anthropic-key, --adzuna-id, --adzuna-key")
	}

	sess, closeFn, err := bootstrap(setupLogger(debug))
	if err != nil {
		return err
	}
	defer closeFn()

	next := sess.StoredCredentials()
	if flags.Changed("anthropic-key") {
		next.AnthropicAPIKey = setAnthropicKey
	}
	if flags.Changed("adzuna-id") {
		next.AdzunaAppID = setAdzunaID
	}
	if flags.Changed("adzuna-key") {
		next.AdzunaAppKey = setAdzunaKey
	}

	if err := sess.SetCredentials(next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	fmt.Println("Settings saved.")
	printCredentials(sess)
	return nil
}

func printCredentials(sess *session.Session) {
	stored := sess.StoredCredentials()
	effective := sess.Credentials()

	row := func(label, storedValue, effectiveValue string) {
		line := fmt.Sprintf("%-18s %s", label, session.Mask(storedValue))
		if effectiveValue != storedValue {
			line += dimStyle.Render("  (overridden by config/env: " + session.Mask(effectiveValue) + ")")
		}
		fmt.Println(line)
	}

	fmt.Println(tableHeaderStyle.Render("Stored keys"))
	row("Anthropic API key", stored.AnthropicAPIKey, effective.AnthropicAPIKey)
	row("Adzuna App ID", stored.AdzunaAppID, effective.AdzunaAppID)
	row("Adzuna App Key", stored.AdzunaAppKey, effective.AdzunaAppKey)
}
