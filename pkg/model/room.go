package model

import "time"

// Price is a whole-unit amount in a single currency. Totals are computed by
// exact integer multiplication, never floating point.
type Price struct {
	Amount   int64  `json:"amount" bson:"amount" validate:"required,min=1"`
	Currency string `json:"currency" bson:"currency" validate:"required,iso4217"`
}

type Location struct {
	Country string `json:"country" bson:"country" validate:"required,min=2,max=60"`
	City    string `json:"city" bson:"city" validate:"required,min=1,max=60"`
	Street  string `json:"street,omitempty" bson:"street,omitempty" validate:"omitempty,max=120"`
}

type Room struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HostID        string    `json:"host_id" bson:"host_id" validate:"required"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Capacity      int       `json:"capacity" bson:"capacity" validate:"required,min=1"`
	Bedrooms      int       `json:"bedrooms" bson:"bedrooms" validate:"min=0,max=50"`
	Bathrooms     int       `json:"bathrooms" bson:"bathrooms" validate:"min=0,max=50"`
	PricePerNight Price     `json:"price_per_night" bson:"price_per_night" validate:"required"`
	MinNights     int       `json:"min_nights" bson:"min_nights" validate:"required,min=1"`
	MaxNights     int       `json:"max_nights" bson:"max_nights" validate:"required,gtefield=MinNights"`
	Amenities     []string  `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,dive,min=1,max=60"`
	Rules         []string  `json:"rules,omitempty" bson:"rules,omitempty" validate:"omitempty,dive,min=1,max=200"`
	Location      Location  `json:"location" bson:"location"`
	InstantBook   bool      `json:"instant_book" bson:"instant_book"`
	Archived      bool      `json:"archived" bson:"archived"`
	CreatedAt     time.Time `json:"created_at,omitempty" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at,omitempty" bson:"updated_at"`
}

// RoomUpdate carries a merge-style patch. Nil pointers leave the stored
// value untouched.
type RoomUpdate struct {
	Name          string    `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Capacity      *int      `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Bedrooms      *int      `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Bathrooms     *int      `json:"bathrooms,omitempty" validate:"omitempty,min=0,max=50"`
	PricePerNight *Price    `json:"price_per_night,omitempty"`
	MinNights     *int      `json:"min_nights,omitempty" validate:"omitempty,min=1"`
	MaxNights     *int      `json:"max_nights,omitempty" validate:"omitempty,min=1"`
	Amenities     *[]string `json:"amenities,omitempty"`
	Rules         *[]string `json:"rules,omitempty"`
	Location      *Location `json:"location,omitempty"`
	InstantBook   *bool     `json:"instant_book,omitempty"`
}
