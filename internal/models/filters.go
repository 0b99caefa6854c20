package models

// ListFilter carries the pagination and search parameters shared by all
// list queries.
type ListFilter struct {
	Page   int
	Limit  int
	Search string
}

// Normalize applies the defaults used across list endpoints.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
}

// Offset returns the row offset for the current page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// OrderFilter narrows order list queries.
type OrderFilter struct {
	ListFilter
	Status   string
	Priority string
}

// InventoryFilter narrows inventory list queries.
type InventoryFilter struct {
	ListFilter
	WarehouseID string
	LowStock    bool
}

// ShipmentFilter narrows inbound and outbound shipment list queries.
type ShipmentFilter struct {
	ListFilter
	Status string
}
