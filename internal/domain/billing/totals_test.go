package billing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/money"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeSingleLineAtTenPercent(t *testing.T) {
	totals, err := Compute([]Line{{UnitPrice: d("10.00"), Quantity: 2, VATPercent: d("10")}})
	require.NoError(t, err)

	assert.Equal(t, "20,00€", money.Format(totals.TTC))
	assert.Equal(t, "18,18€", money.Format(totals.HT))
	assert.Equal(t, "1,82€", money.Format(totals.TVA))
	require.Len(t, totals.ByRate, 1)
	assert.True(t, totals.ByRate[0].Amount.Equal(d("1.82")))
}

func TestComputeComboWithFreeChildren(t *testing.T) {
	totals, err := Compute([]Line{
		{UnitPrice: d("8.00"), Quantity: 1, VATPercent: d("10")},
		{UnitPrice: d("0"), Quantity: 1, VATPercent: d("5.5")},
		{UnitPrice: d("0"), Quantity: 1, VATPercent: d("10")},
	})
	require.NoError(t, err)

	assert.True(t, totals.TTC.Equal(d("8")))
	assert.Len(t, totals.ByRate, 2)
	assert.True(t, totals.RateMap()["5.5"].IsZero())
}

func TestComputeEmpty(t *testing.T) {
	totals, err := Compute(nil)
	require.NoError(t, err)
	assert.True(t, totals.TTC.IsZero())
	assert.True(t, totals.HT.IsZero())
	assert.Empty(t, totals.ByRate)
}

func TestComputeBucketsByRateInAscendingOrder(t *testing.T) {
	totals, err := Compute([]Line{
		{UnitPrice: d("12.00"), Quantity: 1, VATPercent: d("20")},
		{UnitPrice: d("3.30"), Quantity: 2, VATPercent: d("5.5")},
		{UnitPrice: d("5.00"), Quantity: 1, VATPercent: d("20.00")},
	})
	require.NoError(t, err)

	require.Len(t, totals.ByRate, 2)
	assert.True(t, totals.ByRate[0].Rate.Equal(d("5.5")))
	assert.True(t, totals.ByRate[1].Rate.Equal(d("20")))
	// 6.60 / 1.055 = 6.2559 -> 6.26, tax 0.34
	assert.True(t, totals.ByRate[0].Amount.Equal(d("0.34")))
	// 12 / 1.2 = 10, 5 / 1.2 = 4.17 -> tax 2.00 + 0.83
	assert.True(t, totals.ByRate[1].Amount.Equal(d("2.83")))
	assert.True(t, totals.HT.Add(totals.TVA).Equal(totals.TTC))
}

func TestComputeRejectsInvalidVAT(t *testing.T) {
	for _, rate := range []string{"100", "-1", "250"} {
		_, err := Compute([]Line{{UnitPrice: d("1"), Quantity: 1, VATPercent: d(rate)}})
		assert.True(t, apperror.Is(err, apperror.KindValidation), rate)
	}
}

func TestComputeRejectsNegativeQuantity(t *testing.T) {
	_, err := Compute([]Line{{UnitPrice: d("1"), Quantity: -1, VATPercent: d("10")}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestSplitAlwaysBalances(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	rates := []string{"0", "2.1", "5.5", "10", "20", "99.99"}
	for i := 0; i < 500; i++ {
		price := decimal.New(rng.Int63n(100000), -2)
		rate := d(rates[rng.Intn(len(rates))])

		a, err := Split(price, rate)
		require.NoError(t, err)
		assert.True(t, a.HT.Add(a.TVA).Equal(price), "price %s rate %s", price, rate)
	}
}

func TestComputeTotalIsSumOfLines(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		var lines []Line
		want := decimal.Zero
		n := rng.Intn(6)
		for j := 0; j < n; j++ {
			l := Line{UnitPrice: decimal.New(rng.Int63n(5000), -2), Quantity: rng.Intn(5), VATPercent: d("10")}
			lines = append(lines, l)
			want = want.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		totals, err := Compute(lines)
		require.NoError(t, err)
		assert.True(t, totals.TTC.Equal(want))
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	lines := []Line{
		{UnitPrice: d("9.90"), Quantity: 3, VATPercent: d("10")},
		{UnitPrice: d("2.50"), Quantity: 3, VATPercent: d("5.5")},
		{UnitPrice: d("4.20"), Quantity: 1, VATPercent: d("20")},
	}
	first, err := Compute(lines)
	require.NoError(t, err)
	second, err := Compute(lines)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChangeDue(t *testing.T) {
	change, err := ChangeDue(d("20.00"), d("18.50"))
	require.NoError(t, err)
	assert.Equal(t, "1,50€", money.Format(change))

	change, err = ChangeDue(d("18.50"), d("18.50"))
	require.NoError(t, err)
	assert.True(t, change.IsZero())

	_, err = ChangeDue(d("10"), d("18.50"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
