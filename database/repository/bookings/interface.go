package bookingsRepo

import (
	"context"
	"errors"

	"barberbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotTaken       = errors.New("time slot already booked")
)

type BookingRepository interface {
	Create(ctx context.Context, b models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByBarberAndDate(ctx context.Context, shopID, barberID, date string) ([]models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository storing bookings in db.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
