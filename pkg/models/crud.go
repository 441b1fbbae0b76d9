package models

// ReminderRequest is the payload for creating a medication reminder
type ReminderRequest struct {
	MedicineName string `json:"medicine_name"`
	Dosage       string `json:"dosage,omitempty"`
	RemindAt     string `json:"remind_at"`
}

// Reminder is a stored reminder as the backend returns it
type Reminder struct {
	ID           int64  `json:"id,omitempty"`
	MedicineName string `json:"medicine_name"`
	Dosage       string `json:"dosage,omitempty"`
	RemindAt     string `json:"remind_at"`
}

// DashboardSummary aggregates counts for the dashboard view
type DashboardSummary struct {
	Done          int `json:"done"`
	Pending       int `json:"pending"`
	Prescriptions int `json:"prescriptions"`
	Medicines     int `json:"medicines"`
	Reminders     int `json:"reminders"`
}
