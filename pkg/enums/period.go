package enums

import "fmt"

// PeriodType scopes an analytics snapshot to a reporting window.
type PeriodType string

const (
	PeriodTypeDaily   PeriodType = "daily"
	PeriodTypeWeekly  PeriodType = "weekly"
	PeriodTypeMonthly PeriodType = "monthly"
)

var validPeriodTypes = []PeriodType{
	PeriodTypeDaily,
	PeriodTypeWeekly,
	PeriodTypeMonthly,
}

// IsValid checks whether the given period matches the canonical enum.
func (p PeriodType) IsValid() bool {
	for _, candidate := range validPeriodTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePeriodType converts raw strings into PeriodType.
func ParsePeriodType(value string) (PeriodType, error) {
	for _, candidate := range validPeriodTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid period type %q", value)
}
