package catalogRepo

import (
	"context"
	"errors"

	"barberbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrServiceNotFound = errors.New("service not found")

// CatalogRepository reads a shop's catalog. Writes belong to the admin tooling.
type CatalogRepository interface {
	ListCategories(ctx context.Context, shopID string) ([]models.Category, error)
	ListServices(ctx context.Context, shopID string) ([]models.Service, error)
	GetService(ctx context.Context, shopID, serviceID string) (*models.Service, error)
	ListUpsellOffers(ctx context.Context, shopID string, mainServiceIDs []string) ([]models.UpsellOffer, error)
}

type MongoCatalogRepo struct {
	categories *mongo.Collection
	services   *mongo.Collection
	upsells    *mongo.Collection
}

// NewMongoCatalogRepo returns a CatalogRepository backed by db.
func NewMongoCatalogRepo(db *mongo.Database) *MongoCatalogRepo {
	repo := &MongoCatalogRepo{
		categories: db.Collection("categories"),
		services:   db.Collection("services"),
		upsells:    db.Collection("upsell_offers"),
	}
	return repo
}
