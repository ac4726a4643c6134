package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okivie/lifewheel/internal/config"
)

var (
	historyUser   string
	historyPeriod string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the life index history and trend for a user",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyUser, "user", "", "user ID (required)")
	historyCmd.Flags().StringVar(&historyPeriod, "period", "month", "period: month (daily points) or year (monthly averages)")
	historyCmd.MarkFlagRequired("user")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	eng, err := newEngine(db, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h, err := eng.History(ctx, historyUser, historyPeriod)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if len(h.Points) == 0 {
		fmt.Println("no snapshots recorded yet")
		return nil
	}

	for _, p := range h.Points {
		label := p.Date
		if label == "" {
			label = p.Month
		}
		fmt.Printf("  %s  %5.1f\n", label, p.Value)
	}
	fmt.Printf("\ntrend: %s (delta %+.1f)\n", h.Trend.Direction, h.Trend.Delta)
	return nil
}
