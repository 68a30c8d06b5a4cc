package entity

import "github.com/shopspring/decimal"

// CommissionRates maps a rate key (transfer direction, staff_transfer or
// lotto_submission) to a percentage.
type CommissionRates map[string]decimal.Decimal

// Rate returns the first key present, else def.
func (r CommissionRates) Rate(def decimal.Decimal, keys ...string) decimal.Decimal {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v
		}
	}
	return def
}

func (r CommissionRates) Validate() error {
	for k, v := range r {
		if k == "" {
			return ErrInvalidSetting.With("empty commission key")
		}
		if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidSetting.With("commission %s must be within [0,100]", k)
		}
	}
	return nil
}

type CancellationFee struct {
	Percentage decimal.Decimal `json:"percentage"`
	Enabled    bool            `json:"enabled"`
}

func (f CancellationFee) Validate() error {
	if f.Percentage.IsNegative() || f.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidSetting.With("cancellation fee must be within [0,100]")
	}
	return nil
}
