package utils

import "strings"

const (
	StatusPending = "Pending"
	StatusOngoing = "Ongoing"
	StatusFinish  = "Finish"
	StatusCancel  = "Cancel"
)

const (
	ContractLumpsum   = "Lumpsum"
	ContractDailyRate = "DailyRate"
)

// NormalizeStatus maps free-form status text onto one of the four project
// statuses. Unknown input, including empty, becomes Pending.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "finish", "finished", "completed":
		return StatusFinish
	case "ongoing", "in progress", "progress":
		return StatusOngoing
	case "cancel", "cancelled", "canceled":
		return StatusCancel
	default:
		return StatusPending
	}
}

// NormalizeContractType returns the canonical contract type. Empty input is
// valid and means "not set".
func NormalizeContractType(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "":
		return "", true
	case "lumpsum":
		return ContractLumpsum, true
	case "dailyrate":
		return ContractDailyRate, true
	default:
		return "", false
	}
}
