package enums

import "fmt"

// InventoryType classifies what kind of countable unit an item represents.
type InventoryType string

const (
	InventoryTypeRoom        InventoryType = "room"
	InventoryTypeVehicle     InventoryType = "vehicle"
	InventoryTypeTicket      InventoryType = "ticket"
	InventoryTypeAppointment InventoryType = "appointment"
	InventoryTypeWorkspace   InventoryType = "workspace"
	InventoryTypeService     InventoryType = "service"
	InventoryTypeProduct     InventoryType = "product"
	InventoryTypeTable       InventoryType = "table"
)

var validInventoryTypes = []InventoryType{
	InventoryTypeRoom,
	InventoryTypeVehicle,
	InventoryTypeTicket,
	InventoryTypeAppointment,
	InventoryTypeWorkspace,
	InventoryTypeService,
	InventoryTypeProduct,
	InventoryTypeTable,
}

// IsValid checks whether the given type matches the canonical enum.
func (t InventoryType) IsValid() bool {
	for _, candidate := range validInventoryTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInventoryType converts raw strings into InventoryType.
func ParseInventoryType(value string) (InventoryType, error) {
	for _, candidate := range validInventoryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory type %q", value)
}

// InventoryStatus maps to the inventory_status enum in Postgres.
type InventoryStatus string

const (
	InventoryStatusAvailable   InventoryStatus = "available"
	InventoryStatusReserved    InventoryStatus = "reserved"
	InventoryStatusOccupied    InventoryStatus = "occupied"
	InventoryStatusMaintenance InventoryStatus = "maintenance"
	InventoryStatusOutOfOrder  InventoryStatus = "out_of_order"
	InventoryStatusRetired     InventoryStatus = "retired"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusAvailable,
	InventoryStatusReserved,
	InventoryStatusOccupied,
	InventoryStatusMaintenance,
	InventoryStatusOutOfOrder,
	InventoryStatusRetired,
}

// IsValid checks whether the given status matches the canonical enum.
func (s InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInventoryStatus converts raw strings into InventoryStatus.
func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}
