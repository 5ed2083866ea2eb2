package cmd

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/linanwx/uibridge/bridge"
	"github.com/linanwx/uibridge/config"
	"github.com/linanwx/uibridge/host"
	"github.com/linanwx/uibridge/logger"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Act as the host and send one command to a running bridge",
	Long: `Connect to a bridge started with "serve --listen", send one command
and optionally print the events it sends back. The connection replaces any
host currently attached to that bridge.

Examples:
  uibridge send --cmd setText --value hello
  uibridge send --cmd submit --value ping --wait 2s
  uibridge send --payload '{"cmd":"clearOutput"}'`,
	RunE: runSend,
}

var (
	sendURL     string
	sendCommand string
	sendValue   string
	sendPayload string
	sendWait    time.Duration
)

func init() {
	sendCmd.Flags().StringVar(&sendURL, "url", "", "Bridge WebSocket URL (defaults to the configured listen address)")
	sendCmd.Flags().StringVar(&sendCommand, "cmd", "", "Command name: setText, appendOutput, clearOutput, submit")
	sendCmd.Flags().StringVar(&sendValue, "value", "", "Command value")
	sendCmd.Flags().StringVar(&sendPayload, "payload", "", "Raw JSON payload, overrides --cmd and --value")
	sendCmd.Flags().DurationVar(&sendWait, "wait", 0, "How long to print events sent back by the bridge")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	payload, err := buildPayload(sendCommand, sendValue, cmd.Flags().Changed("value"), sendPayload)
	if err != nil {
		return err
	}

	url, err := resolveBridgeURL(sendURL, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second+sendWait)
	defer cancel()

	out := cmd.OutOrStdout()
	client, err := host.Dial(ctx, url, func(event string) {
		name := gjson.Get(event, "event").String()
		value := gjson.Get(event, "value").String()
		fmt.Fprintf(out, "%s: %s\n", name, value)
	})
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.SendMessage(ctx, payload); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	logger.Debug("command sent", "url", url, "payload", payload)

	if sendWait > 0 {
		waitCtx, waitCancel := context.WithTimeout(ctx, sendWait)
		defer waitCancel()
		if err := client.Run(waitCtx); err != nil {
			return fmt.Errorf("read events: %w", err)
		}
	}
	return nil
}

// buildPayload returns raw when set, otherwise a {"cmd","value"} object.
// value is only included when hasValue is true.
func buildPayload(command, value string, hasValue bool, raw string) (string, error) {
	if raw = strings.TrimSpace(raw); raw != "" {
		if !gjson.Valid(raw) {
			return "", fmt.Errorf("--payload is not valid JSON")
		}
		return raw, nil
	}

	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("--cmd or --payload is required")
	}
	if bridge.ParseKind(command) == bridge.KindUnknown {
		logger.Warn("sending unknown command", "cmd", command)
	}

	payload, err := sjson.Set("{}", "cmd", command)
	if err != nil {
		return "", err
	}
	if hasValue {
		payload, err = sjson.Set(payload, "value", value)
		if err != nil {
			return "", err
		}
	}
	return payload, nil
}

// resolveBridgeURL prefers an explicit --url and falls back to the
// configured listen address.
func resolveBridgeURL(flagURL string, cfg *config.Config) (string, error) {
	if url := strings.TrimSpace(flagURL); url != "" {
		return url, nil
	}
	if url := bridgeURL(cfg.Host); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("--url is required (no listen address configured)")
}

// bridgeURL derives a dialable URL from the listen settings.
func bridgeURL(hc config.HostConfig) string {
	addr := strings.TrimSpace(hc.Listen)
	if addr == "" {
		return ""
	}
	h, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	if h == "" || h == "0.0.0.0" || h == "::" {
		h = "127.0.0.1"
	}
	path := hc.Path
	if path == "" {
		path = host.DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "ws://" + net.JoinHostPort(h, port) + path
}
