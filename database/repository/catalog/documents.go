package catalogRepo

import (
	"barberbook/models"

	"github.com/shopspring/decimal"
)

type categoryDoc struct {
	ID           string `bson:"id"`
	ShopID       string `bson:"shopId"`
	NameEN       string `bson:"name_en"`
	NameAR       string `bson:"name_ar"`
	DisplayOrder int    `bson:"display_order"`
	Active       bool   `bson:"active"`
}

func (d categoryDoc) toModel() models.Category {
	return models.Category{
		ID:           d.ID,
		ShopID:       d.ShopID,
		NameEN:       d.NameEN,
		NameAR:       d.NameAR,
		DisplayOrder: d.DisplayOrder,
	}
}

type serviceDoc struct {
	ID            string  `bson:"id"`
	ShopID        string  `bson:"shopId"`
	CategoryID    string  `bson:"categoryId"`
	NameEN        string  `bson:"name_en"`
	NameAR        string  `bson:"name_ar"`
	Price         float64 `bson:"price"`
	Duration      int     `bson:"duration"`
	DisplayOrder  int     `bson:"display_order"`
	DiscountType  string  `bson:"discount_type,omitempty"`
	DiscountValue float64 `bson:"discount_value,omitempty"`
	Active        bool    `bson:"active"`
}

func (d serviceDoc) toModel() models.Service {
	return models.Service{
		ID:            d.ID,
		ShopID:        d.ShopID,
		CategoryID:    d.CategoryID,
		NameEN:        d.NameEN,
		NameAR:        d.NameAR,
		Price:         decimal.NewFromFloat(d.Price),
		Duration:      d.Duration,
		DisplayOrder:  d.DisplayOrder,
		DiscountType:  d.DiscountType,
		DiscountValue: decimal.NewFromFloat(d.DiscountValue),
	}
}

type upsellDoc struct {
	ID            string  `bson:"id"`
	ShopID        string  `bson:"shopId"`
	MainServiceID string  `bson:"mainServiceId"`
	ServiceID     string  `bson:"serviceId"`
	OfferPrice    float64 `bson:"offerPrice"`
	DisplayOrder  int     `bson:"display_order"`
	Active        bool    `bson:"active"`
}
