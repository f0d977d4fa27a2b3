package enums

import "fmt"

// MaintenanceType categorizes scheduled work on an inventory item.
type MaintenanceType string

const (
	MaintenanceTypeRoutine    MaintenanceType = "routine"
	MaintenanceTypeRepair     MaintenanceType = "repair"
	MaintenanceTypeInspection MaintenanceType = "inspection"
	MaintenanceTypeCleaning   MaintenanceType = "cleaning"
	MaintenanceTypeUpgrade    MaintenanceType = "upgrade"
)

var validMaintenanceTypes = []MaintenanceType{
	MaintenanceTypeRoutine,
	MaintenanceTypeRepair,
	MaintenanceTypeInspection,
	MaintenanceTypeCleaning,
	MaintenanceTypeUpgrade,
}

// IsValid checks whether the given type matches the canonical enum.
func (m MaintenanceType) IsValid() bool {
	for _, candidate := range validMaintenanceTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaintenanceType converts raw strings into MaintenanceType.
func ParseMaintenanceType(value string) (MaintenanceType, error) {
	for _, candidate := range validMaintenanceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid maintenance type %q", value)
}

// MaintenanceStatus tracks a maintenance record through its lifecycle.
type MaintenanceStatus string

const (
	MaintenanceStatusScheduled  MaintenanceStatus = "scheduled"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

var validMaintenanceStatuses = []MaintenanceStatus{
	MaintenanceStatusScheduled,
	MaintenanceStatusInProgress,
	MaintenanceStatusCompleted,
	MaintenanceStatusCancelled,
}

// IsValid checks whether the given status matches the canonical enum.
func (m MaintenanceStatus) IsValid() bool {
	for _, candidate := range validMaintenanceStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaintenanceStatus converts raw strings into MaintenanceStatus.
func ParseMaintenanceStatus(value string) (MaintenanceStatus, error) {
	for _, candidate := range validMaintenanceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid maintenance status %q", value)
}
