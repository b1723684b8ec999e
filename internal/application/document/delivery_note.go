package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryNoteTemplate is the template name of delivery notes
const DeliveryNoteTemplate = "delivery_note.html"

// DeliveryNote is the data printed on a dispatch's delivery note
type DeliveryNote struct {
	CompanyName        string
	TenantName         string
	DispatchNumber     string
	Status             string
	ScheduledAt        time.Time
	StartedAt          *time.Time
	DeliveredAt        *time.Time
	DestinationAddress string
	Remarks            string
	Origin             NoteWarehouse
	Booking            NoteBooking
	Container          NoteContainer
	Driver             NoteDriver
	Vehicle            NoteVehicle
	Lines              []NoteLine
	TotalQuantity      decimal.Decimal
	GeneratedAt        time.Time
}

// NoteWarehouse is the dispatching warehouse
type NoteWarehouse struct {
	Code    string
	Name    string
	Address string
	City    string
	Country string
}

// NoteBooking identifies the export booking
type NoteBooking struct {
	Number            string
	CustomerName      string
	CustomerReference string
	VesselName        string
	VoyageNumber      string
}

// NoteContainer describes the shipped container
type NoteContainer struct {
	Number        string
	Size          string
	SealNumber    string
	GrossWeightKg decimal.Decimal
}

// NoteDriver is the assigned driver
type NoteDriver struct {
	Name          string
	Phone         string
	LicenseNumber string
}

// NoteVehicle is the assigned vehicle
type NoteVehicle struct {
	Registration string
	Type         string
	Make         string
	Model        string
}

// NoteLine is one picked SKU at one location
type NoteLine struct {
	SKU          string
	LocationCode string
	Quantity     decimal.Decimal
}
