package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridlens/gridlens/config"
	"github.com/gridlens/gridlens/core/stats"
	"github.com/gridlens/gridlens/infra/logger"
	"github.com/gridlens/gridlens/infra/upstream"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch one aggregated snapshot and print its summary",
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := upstream.NewClient(
		cfg.Upstream.BaseURL,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
		logger.New("snapshot-command"),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := client.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	out, err := json.MarshalIndent(stats.Summarize(snap), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
