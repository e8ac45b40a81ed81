package model

import "time"

// Booking statuses. Pending and confirmed bookings are "active" and count
// toward date-conflict detection; the other three are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// IdentityDocument holds the metadata of an uploaded identity document.
// Receiving and storing the file itself is the document store's job; a
// booking only carries the reference.
type IdentityDocument struct {
	FileName        string    `json:"file_name" bson:"file_name" validate:"required,max=255"`
	OriginalName    string    `json:"original_name" bson:"original_name" validate:"required,max=255"`
	ContentType     string    `json:"content_type" bson:"content_type" validate:"required,max=120"`
	SizeBytes       int64     `json:"size_bytes" bson:"size_bytes" validate:"required,min=1"`
	UploadedAt      time.Time `json:"uploaded_at" bson:"uploaded_at"`
	StorageProvider string    `json:"storage_provider" bson:"storage_provider" validate:"required,max=60"`
}

type Booking struct {
	ID          string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID      string            `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	GuestID     string            `json:"guest_id" bson:"guest_id" validate:"required"`
	HostID      string            `json:"host_id" bson:"host_id" validate:"required"`
	StartDate   time.Time         `json:"start_date" bson:"start_date" validate:"required"`
	EndDate     time.Time         `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	Nights      int               `json:"nights" bson:"nights" validate:"required,min=1"`
	Guests      int               `json:"guests" bson:"guests" validate:"required,min=1"`
	TotalPrice  Price             `json:"total_price" bson:"total_price" validate:"required"`
	Status      string            `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed rejected"`
	DateOfBirth time.Time         `json:"date_of_birth" bson:"date_of_birth" validate:"required"`
	Document    *IdentityDocument `json:"document" bson:"document" validate:"required"`
	CreatedAt   time.Time         `json:"created_at,omitempty" bson:"created_at"`
}

// IsActive reports whether the booking counts toward conflict detection.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal reports whether the booking reached a final state.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusRejected
}

// BookingRequest is the admission input as received from a guest. Dates are
// plain calendar days ("2006-01-02"); the admission policy parses, normalizes
// to UTC midnight and validates them in a fixed order.
type BookingRequest struct {
	RoomID      string            `json:"room_id"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Guests      int               `json:"guests"`
	DateOfBirth string            `json:"date_of_birth"`
	Document    *IdentityDocument `json:"document"`
}
