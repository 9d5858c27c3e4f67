package models

import "time"

const (
	BookingStatusConfirmed = "confirmed"
)

// Booking is a submitted booking as persisted by the bookings repository.
type Booking struct {
	ID            string          `bson:"id" json:"id"`
	ShopID        string          `bson:"shopId" json:"shopId"`
	SessionID     string          `bson:"sessionId" json:"sessionId"`
	BarberID      string          `bson:"barberId" json:"barberId"`
	Date          string          `bson:"date" json:"date"`         // YYYY-MM-DD
	TimeSlot      string          `bson:"timeSlot" json:"timeSlot"` // HH:MM
	StartsAt      time.Time       `bson:"startsAt" json:"startsAt"`
	Customer      CustomerDetails `bson:"customer" json:"customer"`
	Items         []BookingItem   `bson:"items" json:"items"`
	TotalDuration int             `bson:"totalDuration" json:"totalDuration"`
	TotalPrice    float64         `bson:"totalPrice" json:"totalPrice"`
	Savings       float64         `bson:"savings,omitempty" json:"savings,omitempty"`
	Language      Language        `bson:"language" json:"language"`
	Status        string          `bson:"status" json:"status"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
}

// BookingItem is the priced snapshot of one selected service inside a booking.
type BookingItem struct {
	ServiceID            string  `bson:"serviceId" json:"serviceId"`
	Name                 string  `bson:"name" json:"name"`
	Duration             int     `bson:"duration" json:"duration"`
	Price                float64 `bson:"price" json:"price"`
	OriginalPrice        float64 `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	IsBasePackageService bool    `bson:"isBasePackageService,omitempty" json:"isBasePackageService,omitempty"`
	IsPackageAddOn       bool    `bson:"isPackageAddOn,omitempty" json:"isPackageAddOn,omitempty"`
	IsUpsellItem         bool    `bson:"isUpsellItem,omitempty" json:"isUpsellItem,omitempty"`
}
