package main

import (
	"go-medscan/pkg/models"

	"github.com/spf13/cobra"
)

func stripCmd() *cobra.Command {
	var processVariant bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "strip <file> [file...]",
		Short: "Identify medicines from strip photos",
		Long: `Uploads one or more medicine-strip photos (JPEG, PNG, or GIF, max 10MB)
and prints the identified medicine with its summary and the OCR text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUploads(cmd, args, models.StripAnalysis, processVariant, concurrency)
		},
	}

	cmd.Flags().BoolVar(&processVariant, "process-endpoint", false, "use the alternate /api/process-strip/ endpoint")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "parallel uploads when multiple files are given")

	return cmd
}
