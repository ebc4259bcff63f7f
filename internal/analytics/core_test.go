package analytics

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureEnd = time.Date(2011, 12, 9, 12, 50, 0, 0, time.UTC)

func purchase(customer, invoice, item, label string, qty int, price string, at time.Time) model.Transaction {
	return model.Transaction{
		CustomerID:  customer,
		InvoiceNo:   invoice,
		StockCode:   item,
		Description: label,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		InvoiceDate: at,
		Country:     "United Kingdom",
	}
}

// fixtureTransactions builds three customers:
//   - loyal:  recency 1, 10 invoices, 1000 spent; buys A and B together
//   - lapsed: recency 300, 1 invoice, 20 spent; buys D alone
//   - steady: recency 3, 9 invoices, 950 spent; buys A and B together, C once
func fixtureTransactions() []model.Transaction {
	var txns []model.Transaction
	for i := 0; i < 10; i++ {
		at := fixtureEnd.AddDate(0, 0, -i*7)
		invoice := fmt.Sprintf("L%03d", i)
		txns = append(txns,
			purchase("loyal", invoice, "A", "ITEM A", 2, "25", at),
			purchase("loyal", invoice, "B", "ITEM B", 2, "25", at))
	}
	for i := 0; i < 9; i++ {
		at := fixtureEnd.AddDate(0, 0, -2-i*5)
		invoice := fmt.Sprintf("S%03d", i)
		txns = append(txns,
			purchase("steady", invoice, "A", "ITEM A", 1, "50", at),
			purchase("steady", invoice, "B", "ITEM B", 1, "50", at))
	}
	txns = append(txns,
		purchase("steady", "S000", "C", "ITEM C", 1, "50", fixtureEnd.AddDate(0, 0, -2)),
		purchase("lapsed", "P000", "D", "ITEM D", 1, "20", fixtureEnd.AddDate(0, 0, -299)))
	return txns
}

func buildFixture(t *testing.T) *Core {
	t.Helper()
	opts := DefaultOptions()
	opts.Clusters = 2
	core, err := Build(context.Background(), fixtureTransactions(), opts)
	require.NoError(t, err)
	return core
}

func TestBuild_Summary(t *testing.T) {
	core := buildFixture(t)

	summary := core.Summary()
	assert.Equal(t, 3, summary.Customers)
	assert.Equal(t, 4, summary.Items)
	assert.Equal(t, 2, summary.Clusters)
	assert.Equal(t, fixtureEnd.Add(24*time.Hour), core.ReferenceInstant())
	assert.False(t, core.FittedAt().IsZero())
}

func TestBuild_Segments(t *testing.T) {
	core := buildFixture(t)

	clusters := make(map[string]int)
	for _, a := range core.Segments() {
		clusters[a.CustomerID] = a.Cluster
	}

	require.Len(t, clusters, 3)
	assert.Equal(t, clusters["loyal"], clusters["steady"])
	assert.NotEqual(t, clusters["loyal"], clusters["lapsed"])

	segments := core.Segments()
	assert.Equal(t, model.RFM{CustomerID: "lapsed", Recency: 300, Frequency: 1, Monetary: 20}, segments[0].RFM)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		txns    []model.Transaction
		mutate  func(*Options)
		wantErr error
	}{
		{
			name:    "no transactions",
			txns:    nil,
			mutate:  func(*Options) {},
			wantErr: common.ErrNoTransactions,
		},
		{
			name:    "zero clusters",
			txns:    fixtureTransactions(),
			mutate:  func(o *Options) { o.Clusters = 0 },
			wantErr: common.ErrConfiguration,
		},
		{
			name:    "more clusters than customers",
			txns:    fixtureTransactions(),
			mutate:  func(o *Options) { o.Clusters = 4 },
			wantErr: common.ErrConfiguration,
		},
		{
			name:    "invalid top n",
			txns:    fixtureTransactions(),
			mutate:  func(o *Options) { o.TopN = 0 },
			wantErr: common.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			core, err := Build(context.Background(), tt.txns, opts)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, core)
		})
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.Clusters = 2
	_, err := Build(ctx, fixtureTransactions(), opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCore_PredictSegment(t *testing.T) {
	core := buildFixture(t)

	clusters := make(map[string]int)
	for _, a := range core.Segments() {
		clusters[a.CustomerID] = a.Cluster
	}

	got, err := core.PredictSegment(2, 9, 980)
	require.NoError(t, err)
	assert.Equal(t, clusters["loyal"], got)

	again, err := core.PredictSegment(2, 9, 980)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	got, err = core.PredictSegment(280, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, clusters["lapsed"], got)
}

func TestCore_PredictSegmentInvalid(t *testing.T) {
	core := buildFixture(t)

	for _, v := range [][3]float64{{-1, 1, 1}, {1, math.NaN(), 1}, {1, 1, math.Inf(1)}} {
		_, err := core.PredictSegment(v[0], v[1], v[2])
		assert.ErrorIs(t, err, common.ErrConfiguration)
	}

	var unfitted *Core
	_, err := unfitted.PredictSegment(1, 1, 1)
	assert.ErrorIs(t, err, common.ErrNotFitted)
}

func TestCore_Recommend(t *testing.T) {
	core := buildFixture(t)

	got, err := core.Recommend("ITEM A", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ITEM B"}, got)

	detailed, err := core.RecommendDetailed("ITEM A", 1)
	require.NoError(t, err)
	require.Len(t, detailed, 1)
	assert.Equal(t, "B", detailed[0].ItemID)
	assert.InDelta(t, 1.0, detailed[0].Score, 1e-9)

	got, err = core.Recommend("ITEM C", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"ITEM A", "ITEM B"}, got)
}

func TestCore_RecommendNoSimilarItems(t *testing.T) {
	core := buildFixture(t)

	got, err := core.Recommend("ITEM D", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCore_RecommendUnknownLabel(t *testing.T) {
	core := buildFixture(t)

	before, err := core.Recommend("ITEM A", 3)
	require.NoError(t, err)

	_, err = core.Recommend("ITEM Z", 3)
	assert.ErrorIs(t, err, common.ErrUnknownLabel)
	assert.True(t, common.IsQueryMiss(err))

	after, err := core.Recommend("ITEM A", 3)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCore_Profiles(t *testing.T) {
	core := buildFixture(t)

	profiles := core.Profiles()
	require.Len(t, profiles, 2)

	total := 0
	for i, p := range profiles {
		assert.Equal(t, i, p.Cluster)
		total += p.Customers
	}
	assert.Equal(t, 3, total)

	population := core.Population()
	assert.Equal(t, 3, population.Customers)
	assert.InDelta(t, (1.0+300+3)/3, population.MeanRecency, 1e-9)
	assert.InDelta(t, (1000.0+20+950)/3, population.MeanMonetary, 1e-9)
}

func TestCore_ConcurrentQueries(t *testing.T) {
	core := buildFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := core.PredictSegment(float64(i), 5, 500)
			assert.NoError(t, err)
			_, err = core.Recommend("ITEM B", 2)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}

func TestSnapshot_Restore(t *testing.T) {
	core := buildFixture(t)
	snap := core.Snapshot()

	assert.NotEmpty(t, snap.ID)
	assert.Len(t, snap.Centers, 2)
	assert.Equal(t, 3, snap.Customers)

	restored, err := Restore(context.Background(), fixtureTransactions(), snap)
	require.NoError(t, err)

	assert.Equal(t, core.Segments(), restored.Segments())
	for _, q := range [][3]float64{{2, 9, 980}, {280, 1, 10}, {50, 5, 500}} {
		want, err := core.PredictSegment(q[0], q[1], q[2])
		require.NoError(t, err)
		got, err := restored.PredictSegment(q[0], q[1], q[2])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	recs, err := restored.Recommend("ITEM A", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ITEM B"}, recs)
}

func TestRestore_ReferenceFollowsTransactions(t *testing.T) {
	core := buildFixture(t)
	snap := core.Snapshot()
	assert.Equal(t, fixtureEnd.Add(24*time.Hour), snap.ReferenceInstant)

	later := fixtureEnd.AddDate(0, 0, 10)
	txns := append(fixtureTransactions(), purchase("loyal", "L999", "A", "ITEM A", 1, "25", later))

	restored, err := Restore(context.Background(), txns, snap)
	require.NoError(t, err)
	assert.Equal(t, later.Add(24*time.Hour), restored.ReferenceInstant())

	for _, s := range restored.Segments() {
		if s.CustomerID == "loyal" {
			assert.Equal(t, 1, s.RFM.Recency)
		}
	}
}

func TestRestore_Invalid(t *testing.T) {
	core := buildFixture(t)

	snap := core.Snapshot()
	snap.Centers = snap.Centers[:1]
	_, err := Restore(context.Background(), fixtureTransactions(), snap)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = Restore(context.Background(), nil, core.Snapshot())
	assert.ErrorIs(t, err, common.ErrNoTransactions)
}
