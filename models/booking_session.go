package models

import "time"

// CustomerDetails is the contact form filled on the last step.
type CustomerDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

// BookingSession holds everything a customer has chosen so far. It lives in the
// session store until it is confirmed, cancelled, or expires.
type BookingSession struct {
	SessionID string            `json:"sessionId"`
	ShopID    string            `json:"shopId"`
	DeviceID  string            `json:"deviceId,omitempty"`
	Language  Language          `json:"language"`
	Selected  []SelectedService `json:"selected"`
	Date      string            `json:"date,omitempty"` // YYYY-MM-DD
	BarberID  string            `json:"barberId,omitempty"`
	TimeSlot  string            `json:"timeSlot,omitempty"` // HH:MM
	Customer  CustomerDetails   `json:"customer"`
	Flow      FlowState         `json:"flow"`
	CreatedAt time.Time         `json:"createdAt"`
}
