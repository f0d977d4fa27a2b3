package enums

import "fmt"

// AlertType maps to the alert_type enum in Postgres.
type AlertType string

const (
	AlertTypeLowStock          AlertType = "low_stock"
	AlertTypeMaintenanceDue    AlertType = "maintenance_due"
	AlertTypeHighDemand        AlertType = "high_demand"
	AlertTypePriceOptimization AlertType = "price_optimization"
	AlertTypeOverbooking       AlertType = "overbooking"
	AlertTypeSystemError       AlertType = "system_error"
)

var validAlertTypes = []AlertType{
	AlertTypeLowStock,
	AlertTypeMaintenanceDue,
	AlertTypeHighDemand,
	AlertTypePriceOptimization,
	AlertTypeOverbooking,
	AlertTypeSystemError,
}

// IsValid checks whether the given type matches the canonical enum.
func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertType converts raw strings into AlertType.
func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}

// AlertSeverity grades how urgently an alert needs attention.
type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "low"
	AlertSeverityMedium   AlertSeverity = "medium"
	AlertSeverityHigh     AlertSeverity = "high"
	AlertSeverityCritical AlertSeverity = "critical"
)

var validAlertSeverities = []AlertSeverity{
	AlertSeverityLow,
	AlertSeverityMedium,
	AlertSeverityHigh,
	AlertSeverityCritical,
}

// IsValid checks whether the given severity matches the canonical enum.
func (a AlertSeverity) IsValid() bool {
	for _, candidate := range validAlertSeverities {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertSeverity converts raw strings into AlertSeverity.
func ParseAlertSeverity(value string) (AlertSeverity, error) {
	for _, candidate := range validAlertSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert severity %q", value)
}
