// Package commission computes the direct discount a provider's commission
// configuration grants on a purchase.
package commission

import (
	"vtu-service/internal/models"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits money is rounded to.
const Scale = 2

var hundred = decimal.NewFromInt(100)

// InScale reports whether amount has no more fractional digits than Scale.
func InScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(Scale))
}

// Quote is the frozen result stored on a purchase at creation time.
type Quote struct {
	Gross      decimal.Decimal `json:"amount"`
	Discount   decimal.Decimal `json:"user_discount"`
	NetPayable decimal.Decimal `json:"total_amount"`
}

// ComputeDiscount returns the discount for gross under the provider's
// commission settings. The result is never negative and never exceeds gross.
func ComputeDiscount(gross decimal.Decimal, provider *models.ServiceProvider) decimal.Decimal {
	if provider == nil || !gross.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch provider.CommissionType {
	case models.CommissionPercentage:
		discount = gross.Mul(provider.CommissionRate).Div(hundred)
	case models.CommissionFlatFee:
		discount = provider.FlatFeeAmount
	default:
		return decimal.Zero
	}

	discount = discount.Round(Scale)
	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, gross)
}

// Compute builds the full quote for gross.
func Compute(gross decimal.Decimal, provider *models.ServiceProvider) Quote {
	discount := ComputeDiscount(gross, provider)
	return Quote{
		Gross:      gross,
		Discount:   discount,
		NetPayable: gross.Sub(discount),
	}
}
