package catalogRepo

import (
	"context"
	"errors"
	"fmt"

	"barberbook/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var byDisplayOrder = options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})

// ListCategories returns the shop's active categories in display order.
func (r *MongoCatalogRepo) ListCategories(ctx context.Context, shopID string) ([]models.Category, error) {
	cursor, err := r.categories.Find(ctx, bson.M{"shopId": shopID, "active": true}, byDisplayOrder)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		categories = append(categories, d.toModel())
	}
	return categories, nil
}

// ListServices returns the shop's active services in display order.
func (r *MongoCatalogRepo) ListServices(ctx context.Context, shopID string) ([]models.Service, error) {
	return r.findServices(ctx, bson.M{"shopId": shopID, "active": true})
}

func (r *MongoCatalogRepo) findServices(ctx context.Context, filter bson.M) ([]models.Service, error) {
	cursor, err := r.services.Find(ctx, filter, byDisplayOrder)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []serviceDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	services := make([]models.Service, 0, len(docs))
	for _, d := range docs {
		services = append(services, d.toModel())
	}
	return services, nil
}

func (r *MongoCatalogRepo) GetService(ctx context.Context, shopID, serviceID string) (*models.Service, error) {
	var doc serviceDoc
	err := r.services.FindOne(ctx, bson.M{"shopId": shopID, "id": serviceID, "active": true}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
	}
	if err != nil {
		return nil, err
	}
	svc := doc.toModel()
	return &svc, nil
}

// ListUpsellOffers returns the active offers attached to any of mainServiceIDs,
// joined with the service each offer sells. Offers whose service is gone are skipped.
func (r *MongoCatalogRepo) ListUpsellOffers(ctx context.Context, shopID string, mainServiceIDs []string) ([]models.UpsellOffer, error) {
	if len(mainServiceIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.upsells.Find(ctx, bson.M{
		"shopId":        shopID,
		"active":        true,
		"mainServiceId": bson.M{"$in": mainServiceIDs},
	}, byDisplayOrder)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []upsellDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	serviceIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		serviceIDs = append(serviceIDs, d.ServiceID)
	}
	services, err := r.findServices(ctx, bson.M{"shopId": shopID, "active": true, "id": bson.M{"$in": serviceIDs}})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	offers := make([]models.UpsellOffer, 0, len(docs))
	for _, d := range docs {
		svc, ok := byID[d.ServiceID]
		if !ok {
			continue
		}
		offers = append(offers, models.UpsellOffer{
			ID:            d.ID,
			MainServiceID: d.MainServiceID,
			Service:       svc,
			OfferPrice:    decimal.NewFromFloat(d.OfferPrice),
		})
	}
	return offers, nil
}
