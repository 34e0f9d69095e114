// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/shipment"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The destination and pre-registration state are embedded in the orders table;
// items, the shipment record, the customs submission and the audit notes live
// in child tables keyed by order id.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number        string     `gorm:"uniqueIndex"`
	Destination   AddressDTO `gorm:"embedded;embeddedPrefix:destination_"`
	TotalAmount   float64
	TotalCurrency string

	PreRegistration PreRegistrationDTO `gorm:"embedded;embeddedPrefix:prereg_"`

	Items    []ItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipment *ShipmentDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Customs  *CustomsDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Notes    []NoteDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded destination address within the order table.
type AddressDTO struct {
	Name         string
	AttentionTo  string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	CountryCode  string
	Phone        string
	Email        string
}

// PreRegistrationDTO represents the embedded parcel pre-registration state.
type PreRegistrationDTO struct {
	Submitted   bool
	AttemptedAt *time.Time
	LastError   string
	Voided      bool
}

// ItemDTO represents one persisted order line. Position preserves the
// original line order across restores.
type ItemDTO struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	OrderID           uuid.UUID `gorm:"type:uuid;index"`
	Position          int
	ProductRef        string
	Description       string
	Quantity          int
	UnitWeightKg      float64
	UnitValueAmount   float64
	UnitValueCurrency string
	HTSCode           string
	OriginCountry     string
	RequiresShipping  bool
}

// TableName specifies the database table name for order line entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// ShipmentDTO represents the persisted shipment record. The identifier,
// tracking number and label slices keep their package order as JSON arrays.
type ShipmentDTO struct {
	OrderID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentIDs     []string  `gorm:"serializer:json;type:text"`
	TrackingNumbers []string  `gorm:"serializer:json;type:text"`
	Labels          []string  `gorm:"serializer:json;type:text"`
	LabelFormat     string
	CreatedAt       time.Time
}

// TableName specifies the database table name for shipment records.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// CustomsDTO represents the persisted customs submission state. Status and
// NextAttemptAt are indexed for the due-customs sweep query.
type CustomsDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status        int       `gorm:"index"`
	DocumentID    string
	Attempts      int
	LastError     string
	NextAttemptAt *time.Time `gorm:"index"`
	TriggeredAt   time.Time
	CompletedAt   *time.Time
	Voided        bool
}

// TableName specifies the database table name for customs submissions.
func (CustomsDTO) TableName() string {
	return "customs_submissions"
}

// NoteDTO represents one persisted audit trail entry.
type NoteDTO struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	OrderID  uuid.UUID `gorm:"type:uuid;index"`
	Position int
	At       time.Time
	Message  string
}

// TableName specifies the database table name for audit notes.
func (NoteDTO) TableName() string {
	return "order_notes"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	destination := aggregate.Destination()
	dto := OrderDTO{
		ID:     aggregate.ID().Bytes(),
		Number: aggregate.Number(),
		Destination: AddressDTO{
			Name:         destination.Name(),
			AttentionTo:  destination.AttentionTo(),
			AddressLine1: destination.AddressLine1(),
			AddressLine2: destination.AddressLine2(),
			City:         destination.City(),
			State:        destination.State(),
			PostalCode:   destination.PostalCode(),
			CountryCode:  destination.CountryCode(),
			Phone:        destination.Phone(),
			Email:        destination.Email(),
		},
		TotalAmount:   aggregate.Total().Amount(),
		TotalCurrency: aggregate.Total().Currency(),
		PreRegistration: PreRegistrationDTO{
			Submitted:   aggregate.PreRegistration().Submitted(),
			AttemptedAt: aggregate.PreRegistration().AttemptedAt(),
			LastError:   aggregate.PreRegistration().LastError(),
			Voided:      aggregate.PreRegistration().Voided(),
		},
	}

	for i, item := range aggregate.Items() {
		dto.Items = append(dto.Items, ItemDTO{
			OrderID:           dto.ID,
			Position:          i,
			ProductRef:        item.ProductRef(),
			Description:       item.Description(),
			Quantity:          item.Quantity(),
			UnitWeightKg:      item.UnitWeightKg(),
			UnitValueAmount:   item.UnitValue().Amount(),
			UnitValueCurrency: item.UnitValue().Currency(),
			HTSCode:           item.HTSCode(),
			OriginCountry:     item.OriginCountry(),
			RequiresShipping:  item.RequiresShipping(),
		})
	}

	if record := aggregate.Shipment(); record != nil {
		dto.Shipment = &ShipmentDTO{
			OrderID:         dto.ID,
			ShipmentIDs:     record.ShipmentIDs(),
			TrackingNumbers: record.TrackingNumbers(),
			Labels:          record.Labels(),
			LabelFormat:     record.LabelFormat(),
			CreatedAt:       record.CreatedAt(),
		}
	}

	if submission := aggregate.Customs(); submission != nil {
		dto.Customs = &CustomsDTO{
			OrderID:       dto.ID,
			Status:        int(submission.Status()),
			DocumentID:    submission.DocumentID(),
			Attempts:      submission.Attempts(),
			LastError:     submission.LastError(),
			NextAttemptAt: submission.NextAttemptAt(),
			TriggeredAt:   submission.TriggeredAt(),
			CompletedAt:   submission.CompletedAt(),
			Voided:        submission.IsVoided(),
		}
	}

	for i, note := range aggregate.Notes() {
		dto.Notes = append(dto.Notes, NoteDTO{
			OrderID:  dto.ID,
			Position: i,
			At:       note.At,
			Message:  note.Message,
		})
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including shipment record, customs
// submission, pre-registration state and audit notes using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	destination, err := kernel.NewAddress(
		dto.Destination.Name,
		dto.Destination.AttentionTo,
		dto.Destination.AddressLine1,
		dto.Destination.AddressLine2,
		dto.Destination.City,
		dto.Destination.State,
		dto.Destination.PostalCode,
		dto.Destination.CountryCode,
		dto.Destination.Phone,
		dto.Destination.Email,
	)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalAmount, dto.TotalCurrency)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		unitValue, valueErr := kernel.NewMoney(itemDTO.UnitValueAmount, itemDTO.UnitValueCurrency)
		if valueErr != nil {
			return nil, valueErr
		}

		item, itemErr := order.NewItem(
			itemDTO.ProductRef,
			itemDTO.Description,
			itemDTO.Quantity,
			itemDTO.UnitWeightKg,
			unitValue,
			itemDTO.HTSCode,
			itemDTO.OriginCountry,
			itemDTO.RequiresShipping,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var record *shipment.Record
	if dto.Shipment != nil {
		record, err = shipment.NewRecord(
			dto.Shipment.ShipmentIDs,
			dto.Shipment.TrackingNumbers,
			dto.Shipment.Labels,
			dto.Shipment.LabelFormat,
			dto.Shipment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
	}

	var submission *customs.Submission
	if dto.Customs != nil {
		submission, err = customs.RestoreSubmission(
			customs.Status(dto.Customs.Status),
			dto.Customs.DocumentID,
			dto.Customs.Attempts,
			dto.Customs.LastError,
			dto.Customs.NextAttemptAt,
			dto.Customs.TriggeredAt,
			dto.Customs.CompletedAt,
			dto.Customs.Voided,
		)
		if err != nil {
			return nil, err
		}
	}

	preRegistration := order.RestorePreRegistration(
		dto.PreRegistration.Submitted,
		dto.PreRegistration.AttemptedAt,
		dto.PreRegistration.LastError,
		dto.PreRegistration.Voided,
	)

	notes := make([]order.Note, 0, len(dto.Notes))
	for _, noteDTO := range dto.Notes {
		notes = append(notes, order.Note{At: noteDTO.At, Message: noteDTO.Message})
	}

	return order.RestoreOrder(id, dto.Number, destination, total, items, record, submission, preRegistration, notes)
}
