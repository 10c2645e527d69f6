package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample Bay Area pipeline and its jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, teardown, err := setup()
		if err != nil {
			return err
		}
		defer teardown()

		ctx := context.Background()
		s, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Seed(ctx); err != nil {
			return fmt.Errorf("seeding sample data: %w", err)
		}

		zap.S().Info("Sample data seeded")
		return nil
	},
}
