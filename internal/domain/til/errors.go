package til

import "errors"

// TIL domain errors
var (
	ErrRecordNotFound      = errors.New("TIL record not found")
	ErrAlreadyProcessed    = errors.New("TIL record has already been approved or rejected")
	ErrInsufficientBalance = errors.New("insufficient TIL balance")
)
