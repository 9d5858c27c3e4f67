package models

// ReminderPayload is the body of the asynq task that reminds a customer of a booking.
type ReminderPayload struct {
	BookingID string   `json:"bookingId"`
	ShopID    string   `json:"shopId"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	StartsAt  string   `json:"startsAt"` // RFC3339
	Language  Language `json:"language"`
}
