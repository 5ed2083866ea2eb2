package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/linanwx/uibridge/config"
	"github.com/linanwx/uibridge/host"
	"github.com/linanwx/uibridge/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled commands",
	Long:  "List, add, remove, and run the scheduled commands stored in config.yaml.",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled commands",
	RunE:  runScheduleList,
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace a scheduled command",
	Long: `Add a scheduled command to config.yaml. An existing job with the same
ID is replaced.

Examples:
  uibridge schedule add --id nightly-clear --expr "0 0 * * *" --payload '{"cmd":"clearOutput"}'
  uibridge schedule add --id ping --expr "@every 1m" --payload '{"cmd":"submit","value":"ping"}'`,
	RunE: runScheduleAdd,
}

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a scheduled command by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleRemove,
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run [id]",
	Short: "Send a scheduled command to a running bridge now",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleRun,
}

var (
	scheduleAddID       string
	scheduleAddExpr     string
	scheduleAddPayload  string
	scheduleAddDisabled bool
	scheduleRunURL      string
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleRemoveCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)

	scheduleAddCmd.Flags().StringVar(&scheduleAddID, "id", "", "Job ID (required)")
	scheduleAddCmd.Flags().StringVar(&scheduleAddExpr, "expr", "", "Cron expression or descriptor, e.g. '0 9 * * *' or '@every 1h' (required)")
	scheduleAddCmd.Flags().StringVar(&scheduleAddPayload, "payload", "", "Command JSON delivered when the job fires (required)")
	scheduleAddCmd.Flags().BoolVar(&scheduleAddDisabled, "disabled", false, "Store the job without scheduling it")
	_ = scheduleAddCmd.MarkFlagRequired("id")
	_ = scheduleAddCmd.MarkFlagRequired("expr")
	_ = scheduleAddCmd.MarkFlagRequired("payload")

	scheduleRunCmd.Flags().StringVar(&scheduleRunURL, "url", "", "Bridge WebSocket URL (defaults to the configured listen address)")
}

// loadScheduler registers the configured jobs on a stopped scheduler.
func loadScheduler(cfg *config.Config, fire schedule.FireFunc) *schedule.Scheduler {
	s := schedule.NewScheduler(fire)
	s.Load(cfg.Schedules)
	return s
}

func runScheduleList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	jobs := loadScheduler(cfg, nil).List()
	out := cmd.OutOrStdout()
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No scheduled commands configured.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENABLED\tEXPR\tPAYLOAD")
	fmt.Fprintln(w, "--\t-------\t----\t-------")
	for _, job := range jobs {
		payload := job.Payload
		if len(payload) > 48 {
			payload = payload[:48] + "..."
		}
		fmt.Fprintf(w, "%s\t%v\t%s\t%s\n", job.ID, !job.Disabled, job.Expr, payload)
	}
	return w.Flush()
}

func runScheduleAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	job := schedule.Job{
		ID:       strings.TrimSpace(scheduleAddID),
		Expr:     strings.TrimSpace(scheduleAddExpr),
		Payload:  strings.TrimSpace(scheduleAddPayload),
		Disabled: scheduleAddDisabled,
	}
	if err := schedule.NewScheduler(nil).Add(job); err != nil {
		return err
	}

	cfg.Schedules = upsertJob(cfg.Schedules, job)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Scheduled command %q saved.\n", job.ID)
	return nil
}

func runScheduleRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	id := strings.TrimSpace(args[0])
	jobs, inFile := removeJob(cfg.Schedules, id)
	// Invalid jobs are skipped by Load but can still be removed from the file.
	if err := loadScheduler(cfg, nil).Remove(id); err != nil && !inFile {
		return err
	}
	cfg.Schedules = jobs
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Scheduled command %q removed.\n", id)
	return nil
}

func runScheduleRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	url, err := resolveBridgeURL(scheduleRunURL, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := host.Dial(ctx, url, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	var sendErr error
	sched := loadScheduler(cfg, func(job schedule.Job) {
		sendErr = client.SendMessage(ctx, job.Payload)
	})
	if err := sched.RunNow(args[0]); err != nil {
		return err
	}
	if sendErr != nil {
		return fmt.Errorf("send failed: %w", sendErr)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Scheduled command %q sent to %s.\n", strings.TrimSpace(args[0]), url)
	return nil
}

// upsertJob replaces the job with the same ID in place, or appends it.
func upsertJob(jobs []schedule.Job, job schedule.Job) []schedule.Job {
	for i := range jobs {
		if strings.TrimSpace(jobs[i].ID) == job.ID {
			out := append([]schedule.Job(nil), jobs...)
			out[i] = job
			return out
		}
	}
	return append(append([]schedule.Job(nil), jobs...), job)
}

// removeJob drops every job with the given ID.
func removeJob(jobs []schedule.Job, id string) ([]schedule.Job, bool) {
	out := make([]schedule.Job, 0, len(jobs))
	found := false
	for _, job := range jobs {
		if strings.TrimSpace(job.ID) == id {
			found = true
			continue
		}
		out = append(out, job)
	}
	return out, found
}
