package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/uibridge/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create the uibridge configuration interactively",
	Long:  `Create the uibridge configuration directory and config.yaml.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

// onboardAnswers holds the wizard results before they are applied.
type onboardAnswers struct {
	Mode       string
	Listen     string
	NotifyHost bool
	ClearInput bool
	MaxLines   string
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	ans := onboardAnswers{
		Mode:       config.ModeBridge,
		Listen:     "127.0.0.1:8765",
		NotifyHost: true,
		ClearInput: true,
		MaxLines:   "0",
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose the component to run").
				Description("bridge exchanges JSON with a host; appender only appends lines.").
				Options(
					huh.NewOption("Command bridge", config.ModeBridge),
					huh.NewOption("Text appender", config.ModeAppender),
				).
				Value(&ans.Mode),
		),
	).Run()
	if err != nil {
		return err
	}

	if ans.Mode == config.ModeBridge {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("WebSocket listen address").
					Description("The host connects to ws://<addr>/bridge. Leave empty to disable.").
					Value(&ans.Listen),
				huh.NewConfirm().
					Title("Notify the host on send?").
					Value(&ans.NotifyHost),
				huh.NewConfirm().
					Title("Clear the input after send?").
					Value(&ans.ClearInput),
			),
		).Run()
		if err != nil {
			return err
		}
	} else {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Maximum output lines").
					Description("Older lines are dropped. 0 keeps everything.").
					Validate(validateMaxLines).
					Value(&ans.MaxLines),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	cfg, err := applyOnboardAnswers(ans)
	if err != nil {
		return err
	}

	configDir, _ := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("uibridge initialized successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Mode:", cfg.UI.Mode)
	if cfg.Host.Listen != "" {
		fmt.Println("  Listen:", cfg.Host.Listen)
	}
	fmt.Println()
	fmt.Println("Run 'uibridge serve' to start.")
	return nil
}

func validateMaxLines(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func applyOnboardAnswers(ans onboardAnswers) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.UI.Mode = ans.Mode

	if ans.Mode == config.ModeAppender {
		if err := validateMaxLines(ans.MaxLines); err != nil {
			return nil, err
		}
		cfg.Appender.MaxLines, _ = strconv.Atoi(strings.TrimSpace(ans.MaxLines))
		return cfg, nil
	}

	cfg.Host.Listen = strings.TrimSpace(ans.Listen)
	notify, clearInput := ans.NotifyHost, ans.ClearInput
	cfg.Bridge.NotifyHost = &notify
	cfg.Bridge.ClearInputAfterSend = &clearInput
	return cfg, nil
}
