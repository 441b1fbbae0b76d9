package main

import (
	"fmt"

	"go-medscan/internal/client"
	"go-medscan/pkg/models"

	"github.com/spf13/cobra"
)

func reminderCmd() *cobra.Command {
	var medicineName, dosage, remindAt string

	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Create a medication reminder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if medicineName == "" || remindAt == "" {
				return fmt.Errorf("--medicine and --at are required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			apiClient := client.NewClient(cfg, tokenProvider(cfg))

			reminder, err := apiClient.AddReminder(cmd.Context(), models.ReminderRequest{
				MedicineName: medicineName,
				Dosage:       dosage,
				RemindAt:     remindAt,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reminder created: %s", reminder.MedicineName)
			if reminder.Dosage != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", reminder.Dosage)
			}
			fmt.Fprintf(cmd.OutOrStdout(), " at %s\n", reminder.RemindAt)
			return nil
		},
	}

	cmd.Flags().StringVar(&medicineName, "medicine", "", "medicine name")
	cmd.Flags().StringVar(&dosage, "dosage", "", "dosage, e.g. 500mg")
	cmd.Flags().StringVar(&remindAt, "at", "", "reminder time, e.g. 2026-09-01T08:00")

	return cmd
}
