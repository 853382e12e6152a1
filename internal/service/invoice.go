package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"health-concierge/internal/domain/entity"

	"github.com/shopspring/decimal"
)

var (
	ErrInvoiceAmountRequired = errors.New("bespoke pricing requires an explicit invoice amount")
	ErrInvoiceRateMissing    = errors.New("assistant has no rate for its pricing model")
)

// CalculateInvoice prices a finished session. Hourly sessions bill every
// started hour from start to end, with at least one hour once any time has
// elapsed. Bespoke sessions take the explicit amount, which is also honoured
// for the other models when given.
func CalculateInvoice(assistant *entity.Assistant, start, end time.Time, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if assistant == nil {
		return decimal.Zero, ErrInvoiceRateMissing
	}

	switch assistant.PricingModel {
	case entity.PricingBespoke:
		return decimal.Zero, ErrInvoiceAmountRequired
	case entity.PricingFixed:
		if assistant.Rate == nil {
			return decimal.Zero, ErrInvoiceRateMissing
		}
		return *assistant.Rate, nil
	case entity.PricingHourly:
		if assistant.Rate == nil {
			return decimal.Zero, ErrInvoiceRateMissing
		}
		return assistant.Rate.Mul(decimal.NewFromInt(billableHours(start, end))), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q", ErrInvoiceRateMissing, assistant.PricingModel)
}

func billableHours(start, end time.Time) int64 {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int64(math.Ceil(elapsed.Hours()))
}
