package health

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// ComputeWeightedPremium returns round(premium × coefficient(actType)).
func ComputeWeightedPremium(actType ActType, premium decimal.Decimal) (decimal.Decimal, error) {
	coef, ok := Coefficients[actType]
	if !ok {
		return decimal.Zero, &generic.InvalidInputError{Field: "act_type", Value: string(actType), Err: generic.ErrUnknownActType}
	}
	return generic.RoundCurrency(premium.Mul(coef)), nil
}

// Recompute refreshes the weighted premium of an activity.
func Recompute(a *Activity) error {
	w, err := ComputeWeightedPremium(a.ActType, a.AnnualPremium)
	if err != nil {
		return err
	}
	a.WeightedPremium = w
	return nil
}
