package main

import (
	"go-medscan/pkg/models"

	"github.com/spf13/cobra"
)

func prescriptionCmd() *cobra.Command {
	var processVariant bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "prescription <file> [file...]",
		Short: "Analyze prescription images or PDFs",
		Long: `Uploads one or more prescription files (JPEG, PNG, GIF, or PDF, max 10MB)
and prints the detected medicines, dosages, and OCR text. Multiple files are
uploaded concurrently, each as an independent request.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUploads(cmd, args, models.PrescriptionAnalysis, processVariant, concurrency)
		},
	}

	cmd.Flags().BoolVar(&processVariant, "process-endpoint", false, "use the alternate /api/process-prescription/ endpoint")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "parallel uploads when multiple files are given")

	return cmd
}
