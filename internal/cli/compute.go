package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okivie/lifewheel/internal/config"
	"github.com/okivie/lifewheel/internal/sphere"
)

var computeUser string

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the life index for a user and print it",
	RunE:  runCompute,
}

func init() {
	computeCmd.Flags().StringVar(&computeUser, "user", "", "user ID (required)")
	computeCmd.MarkFlagRequired("user")
}

func runCompute(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := eng.ComputeLifeIndex(ctx, computeUser)
	if err != nil {
		return fmt.Errorf("compute: %w", err)
	}

	fmt.Printf("life index:   %d\n", result.LifeIndex)
	fmt.Printf("personal:     %d\n", result.PersonalEnergy)
	fmt.Printf("social:       %d\n", result.ExternalSuccess)
	fmt.Printf("mindfulness:  %d\n", result.MindfulnessLevel)
	fmt.Printf("balance:      %s (skew %+d)\n", result.Tilt, result.Skew)
	fmt.Println()
	for _, si := range result.SphereIndices {
		s, err := sphere.ByID(si.SphereID)
		if err != nil {
			continue
		}
		fmt.Printf("  %-10s %5.1f\n", s.Label(sphere.LangEN), si.Index)
	}
	return nil
}
