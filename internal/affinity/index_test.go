package affinity

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// basketIndex builds an index where:
//   - A is only ever bought together with B, in the same quantities
//   - C is bought with B by a different customer
//   - D and E are each bought alone
//   - Z is registered but never bought
func basketIndex() *Index {
	in := NewInteractions()
	in.Add("c1", "A", 2)
	in.Add("c1", "B", 2)
	in.Add("c2", "A", 1)
	in.Add("c2", "B", 1)
	in.Add("c3", "B", 4)
	in.Add("c3", "C", 1)
	in.Add("c4", "D", 3)
	in.Add("c5", "E", 1)
	in.Add("c5", "D", 1)
	in.Register("Z")
	return Build(in)
}

func TestBuild_Symmetric(t *testing.T) {
	x := basketIndex()
	items := x.Items()

	for _, a := range items {
		for _, b := range items {
			ab, err := x.Similarity(a, b)
			require.NoError(t, err)
			ba, err := x.Similarity(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "sim(%s,%s)", a, b)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}
}

func TestBuild_Diagonal(t *testing.T) {
	x := basketIndex()

	for _, item := range []string{"A", "B", "C", "D", "E"} {
		s, err := x.Similarity(item, item)
		require.NoError(t, err)
		assert.Equal(t, 1.0, s, item)
	}

	s, err := x.Similarity("Z", "Z")
	require.NoError(t, err)
	assert.Zero(t, s)
}

func TestNeighbors_OnlyBoughtTogether(t *testing.T) {
	x := basketIndex()

	got, err := x.Neighbors("A", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ItemID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
}

func TestNeighbors_Ordering(t *testing.T) {
	x := basketIndex()

	for _, item := range x.Items() {
		for n := 1; n <= 6; n++ {
			t.Run(fmt.Sprintf("%s/%d", item, n), func(t *testing.T) {
				got, err := x.Neighbors(item, n)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(got), n)

				for i, nb := range got {
					assert.NotEqual(t, item, nb.ItemID)
					assert.Positive(t, nb.Score)
					if i > 0 {
						prev := got[i-1]
						ordered := prev.Score > nb.Score ||
							(prev.Score == nb.Score && prev.ItemID < nb.ItemID)
						assert.True(t, ordered, "%v before %v", prev, nb)
					}
				}
			})
		}
	}
}

func TestNeighbors_TieBreakByID(t *testing.T) {
	in := NewInteractions()
	in.Add("c1", "X", 1)
	in.Add("c1", "M", 1)
	in.Add("c1", "K", 1)
	x := Build(in)

	got, err := x.Neighbors("X", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "K", got[0].ItemID)
	assert.Equal(t, "M", got[1].ItemID)
}

func TestNeighbors_NeverPurchased(t *testing.T) {
	x := basketIndex()

	got, err := x.Neighbors("Z", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNeighbors_NoPadding(t *testing.T) {
	x := basketIndex()

	// C shares a customer with B only; A is never padded in.
	got, err := x.Neighbors("C", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ItemID)
}

func TestNeighbors_Errors(t *testing.T) {
	x := basketIndex()

	_, err := x.Neighbors("missing", 5)
	assert.ErrorIs(t, err, common.ErrUnknownItem)

	_, err = x.Neighbors("A", 0)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = x.Similarity("A", "missing")
	assert.ErrorIs(t, err, common.ErrUnknownItem)
}

func TestFromTransactions(t *testing.T) {
	at := time.Date(2011, 1, 1, 10, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("1.25")
	in := FromTransactions([]model.Transaction{
		{CustomerID: "17850", StockCode: "71053", Quantity: 6, UnitPrice: price, InvoiceDate: at},
		{CustomerID: "17850", StockCode: "71053", Quantity: 2, UnitPrice: price, InvoiceDate: at},
		{CustomerID: "13047", StockCode: "22752", Quantity: 2, UnitPrice: price, InvoiceDate: at},
	})

	assert.Equal(t, 8.0, in.Quantity("17850", "71053"))
	assert.Zero(t, in.Quantity("17850", "22752"))
	assert.Equal(t, 2, in.Customers())
	assert.Equal(t, []string{"22752", "71053"}, in.Items())

	x := Build(in)
	assert.Equal(t, 2, x.Len())
	assert.True(t, x.Contains("22752"))
	assert.False(t, x.Contains("85123A"))
}

func TestBuild_StableAcrossRebuilds(t *testing.T) {
	interactions := func() *Interactions {
		in := NewInteractions()
		for c := 0; c < 200; c++ {
			customer := fmt.Sprintf("cust-%03d", c)
			in.Add(customer, "A", 0.1*float64(c%7+1))
			in.Add(customer, "B", 0.3*float64(c%5+1))
			in.Add(customer, "C", 0.7*float64(c%3+1))
		}
		return in
	}

	want := Build(interactions())
	for range 20 {
		got := Build(interactions())
		assert.Equal(t, want.sim, got.sim)
	}
	assert.Equal(t, []string{"cust-000", "cust-001"}, interactions().customerIDs()[:2])
}
