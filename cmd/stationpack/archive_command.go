package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stationpack/internal/archive"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Zip the current output set for transfer to a moOde player",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report, err := buildArchive(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderArchiveReport(report, cfg.ArchivePath()))
			if !report.OK {
				return fmt.Errorf("archive verification failed: %d corrupt entries", len(report.Corrupt))
			}
			return nil
		},
	}
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify an existing output archive without rebuilding it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report, err := archive.Verify(cfg.ArchivePath())
			if err != nil {
				return fmt.Errorf("verify archive: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderArchiveReport(report, cfg.ArchivePath()))
			if !report.OK {
				return fmt.Errorf("archive verification failed: %d corrupt entries", len(report.Corrupt))
			}
			return nil
		},
	}
}
