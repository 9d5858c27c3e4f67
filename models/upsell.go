package models

import "github.com/shopspring/decimal"

// UpsellOffer is a supplementary service proposed alongside MainServiceID at a special price.
type UpsellOffer struct {
	ID            string          `json:"id"`
	MainServiceID string          `json:"mainServiceId"`
	Service       Service         `json:"service"`
	OfferPrice    decimal.Decimal `json:"offerPrice"`
}
