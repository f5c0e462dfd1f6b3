package models

// ReminderKind classifies a reminder item
type ReminderKind string

const (
	ReminderInfo    ReminderKind = "info"
	ReminderWarning ReminderKind = "warning"
)

// ReminderItem is a single derived reminder. The ID is a deterministic
// function of the rule and the debt or expense that produced it, so the
// same logical reminder keeps the same identity across recomputations
// on the same day.
type ReminderItem struct {
	ID      string       `json:"id"`
	Kind    ReminderKind `json:"kind"`
	Title   string       `json:"title"`
	Message string       `json:"message"`
}
