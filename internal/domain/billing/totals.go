// Package billing derives tax-inclusive, tax-exclusive and VAT amounts for
// order lines and aggregates them per order.
//
// Prices are stored tax-inclusive (TTC). A line's pre-tax value (HT) is
// TTC / (1 + rate/100) rounded to the cent, and its tax (TVA) is TTC - HT, so
// HT + TVA always equals TTC exactly.
package billing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/money"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Line is the minimal pricing view of an order line.
type Line struct {
	UnitPrice  decimal.Decimal
	Quantity   int
	VATPercent decimal.Decimal
}

// Amounts holds the three views of one priced line.
type Amounts struct {
	TTC decimal.Decimal `json:"ttc"`
	HT  decimal.Decimal `json:"ht"`
	TVA decimal.Decimal `json:"tva"`
}

// RateAmount is the tax collected at one VAT rate.
type RateAmount struct {
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Totals aggregates every line of an order. ByRate is sorted by ascending rate.
type Totals struct {
	HT     decimal.Decimal `json:"ht"`
	TVA    decimal.Decimal `json:"tva"`
	TTC    decimal.Decimal `json:"ttc"`
	ByRate []RateAmount    `json:"by_rate"`
}

// RateMap returns the VAT breakdown keyed by the rate's canonical string ("10", "5.5").
func (t Totals) RateMap() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(t.ByRate))
	for _, r := range t.ByRate {
		m[r.Rate.String()] = r.Amount
	}
	return m
}

// ValidateVAT rejects rates outside [0, 100).
func ValidateVAT(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(hundred) {
		return apperror.NewFieldValidationError("tva_percent",
			fmt.Sprintf("VAT rate %s is outside [0, 100)", rate.String()))
	}
	return nil
}

// LineTotal is the tax-inclusive contribution of a line: unit price times quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Split breaks a tax-inclusive price into HT and TVA at the given rate.
func Split(priceTTC, vatPercent decimal.Decimal) (Amounts, error) {
	if err := ValidateVAT(vatPercent); err != nil {
		return Amounts{}, err
	}
	ht := money.Round(priceTTC.Div(one.Add(vatPercent.Div(hundred))))
	return Amounts{
		TTC: priceTTC,
		HT:  ht,
		TVA: priceTTC.Sub(ht),
	}, nil
}

// Compute aggregates lines into order totals. An empty slice yields zero totals.
func Compute(lines []Line) (Totals, error) {
	totals := Totals{
		HT:     decimal.Zero,
		TVA:    decimal.Zero,
		TTC:    decimal.Zero,
		ByRate: []RateAmount{},
	}

	for i, l := range lines {
		if l.Quantity < 0 {
			return Totals{}, apperror.NewFieldValidationError(
				fmt.Sprintf("lines[%d].quantity", i), "quantity cannot be negative")
		}
		amounts, err := Split(LineTotal(l.UnitPrice, l.Quantity), l.VATPercent)
		if err != nil {
			return Totals{}, err
		}

		totals.HT = totals.HT.Add(amounts.HT)
		totals.TVA = totals.TVA.Add(amounts.TVA)
		totals.TTC = totals.TTC.Add(amounts.TTC)
		totals.ByRate = addToBucket(totals.ByRate, l.VATPercent, amounts.TVA)
	}

	sort.Slice(totals.ByRate, func(i, j int) bool {
		return totals.ByRate[i].Rate.LessThan(totals.ByRate[j].Rate)
	})
	return totals, nil
}

func addToBucket(buckets []RateAmount, rate, amount decimal.Decimal) []RateAmount {
	for i := range buckets {
		if buckets[i].Rate.Equal(rate) {
			buckets[i].Amount = buckets[i].Amount.Add(amount)
			return buckets
		}
	}
	return append(buckets, RateAmount{Rate: rate, Amount: amount})
}

// ChangeDue returns cash - total, or a validation error when the cash does not
// cover the total.
func ChangeDue(cashTendered, totalTTC decimal.Decimal) (decimal.Decimal, error) {
	change := cashTendered.Sub(totalTTC)
	if change.IsNegative() {
		return decimal.Zero, apperror.NewFieldValidationError("cash_tendered",
			fmt.Sprintf("cash tendered %s is less than the order total %s",
				money.Format(cashTendered), money.Format(totalTTC)))
	}
	return change, nil
}
