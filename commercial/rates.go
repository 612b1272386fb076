package commercial

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// PRODUCT TYPES
// =============================================================================

// ProductType is the product sold by a NewBusiness act.
type ProductType string

const (
	ProductAutoMoto         ProductType = "auto_moto"
	ProductPCPersonal       ProductType = "pc_personal"
	ProductPCProfessional   ProductType = "pc_professional"
	ProductLegalProtection  ProductType = "legal_protection"
	ProductGAV              ProductType = "gav"
	ProductHealthProvidence ProductType = "health_providence"
	ProductNOP50            ProductType = "nop50"
	ProductLifePP           ProductType = "life_pp"
	ProductLifeLumpSum      ProductType = "life_lump_sum"
)

// Products lists every product in display order.
var Products = []ProductType{
	ProductAutoMoto,
	ProductPCPersonal,
	ProductPCProfessional,
	ProductLegalProtection,
	ProductGAV,
	ProductHealthProvidence,
	ProductNOP50,
	ProductLifePP,
	ProductLifeLumpSum,
}

// ParseProduct validates a raw product code. The empty string is valid and
// means "no product" (process acts).
func ParseProduct(s string) (ProductType, error) {
	p := ProductType(s)
	if p == "" {
		return "", nil
	}
	if _, ok := Rates[p]; !ok {
		return "", &generic.InvalidInputError{Field: "product_type", Value: s, Err: generic.ErrUnknownProduct}
	}
	return p, nil
}

// =============================================================================
// RATE TABLE
// =============================================================================

// RateKind selects how a product's commission is computed.
type RateKind string

const (
	RateFlat       RateKind = "flat"
	RateTranche    RateKind = "tranche"
	RatePercentage RateKind = "percentage"
)

// Rate describes one product's commission rule.
type Rate struct {
	Kind RateKind

	// Flat amount, or the base amount for RateTranche.
	Base decimal.Decimal

	// RateTranche: Step is added per started TrancheSize above Threshold.
	Threshold   decimal.Decimal
	TrancheSize decimal.Decimal
	Step        decimal.Decimal

	// RatePercentage: share of the annual premium, rounded to whole units.
	Percent decimal.Decimal
}

// Rates is the static commission table.
var Rates = map[ProductType]Rate{
	ProductAutoMoto:         {Kind: RateFlat, Base: generic.NewMoney(10)},
	ProductPCPersonal:       {Kind: RateFlat, Base: generic.NewMoney(20)},
	ProductLegalProtection:  {Kind: RateFlat, Base: generic.NewMoney(30)},
	ProductGAV:              {Kind: RateFlat, Base: generic.NewMoney(40)},
	ProductHealthProvidence: {Kind: RateFlat, Base: generic.NewMoney(50)},
	ProductNOP50:            {Kind: RateFlat, Base: generic.NewMoney(10)},
	ProductLifePP:           {Kind: RateFlat, Base: generic.NewMoney(50)},
	ProductPCProfessional: {
		Kind:        RateTranche,
		Base:        generic.NewMoney(20),
		Threshold:   generic.NewMoney(999),
		TrancheSize: generic.NewMoney(1000),
		Step:        generic.NewMoney(10),
	},
	ProductLifeLumpSum: {Kind: RatePercentage, Percent: generic.Percent(1)},
}
