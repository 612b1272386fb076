package commercial

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// COMMISSION CALCULATOR - Potential commission of one act
// =============================================================================

// ComputeCommission returns the potential commission for a product and
// annual premium. An empty product (process acts) yields zero.
//
// The premium is assumed non-negative and validated upstream.
func ComputeCommission(product ProductType, premium decimal.Decimal) (decimal.Decimal, error) {
	if product == "" {
		return decimal.Zero, nil
	}
	rate, ok := Rates[product]
	if !ok {
		return decimal.Zero, &generic.InvalidInputError{Field: "product_type", Value: string(product), Err: generic.ErrUnknownProduct}
	}
	return rate.Apply(premium), nil
}

// Apply evaluates the rate for a premium.
func (r Rate) Apply(premium decimal.Decimal) decimal.Decimal {
	switch r.Kind {
	case RateTranche:
		return r.Base.Add(r.Step.Mul(decimal.NewFromInt(r.tranches(premium))))
	case RatePercentage:
		return generic.RoundCurrency(premium.Mul(r.Percent))
	default:
		return r.Base
	}
}

// tranches counts the started TrancheSize buckets above Threshold.
// With Threshold 999 and size 1000: 999 -> 0, 1000..1999 -> 1, 2000..2999 -> 2.
func (r Rate) tranches(premium decimal.Decimal) int64 {
	if !premium.GreaterThan(r.Threshold) {
		return 0
	}
	return premium.Sub(r.Threshold).Div(r.TrancheSize).Ceil().IntPart()
}

// Recompute refreshes the derived commission of an activity from its
// product and premium. Process acts are normalised to zero.
func Recompute(a *Activity) error {
	if !a.IsNewBusiness() {
		a.Product = ""
		a.Company = ""
		a.AnnualPremium = decimal.Zero
		a.PotentialCommission = decimal.Zero
		return nil
	}
	c, err := ComputeCommission(a.Product, a.AnnualPremium)
	if err != nil {
		return err
	}
	a.PotentialCommission = c
	return nil
}
