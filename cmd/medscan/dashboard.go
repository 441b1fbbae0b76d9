package main

import (
	"fmt"

	"go-medscan/internal/client"

	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the analysis service's summary counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			apiClient := client.NewClient(cfg, tokenProvider(cfg))

			summary, err := apiClient.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Prescriptions: %d\n", summary.Prescriptions)
			fmt.Fprintf(out, "Medicines:     %d\n", summary.Medicines)
			fmt.Fprintf(out, "Reminders:     %d\n", summary.Reminders)
			fmt.Fprintf(out, "Done:          %d\n", summary.Done)
			fmt.Fprintf(out, "Pending:       %d\n", summary.Pending)
			return nil
		},
	}
}
