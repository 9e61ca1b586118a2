package constants

// Order status values as stored. Status is free text at the API level; these
// are the values the frontend knows about. New orders always start as "offen".
const (
	StatusOpen       = "offen"
	StatusInProgress = "in Bearbeitung"
	StatusCompleted  = "erledigt"
	StatusCancelled  = "storniert"
)
