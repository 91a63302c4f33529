package cutsheet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(n int64) *int64 { return &n }

func line(customer, sku string, brand Category, product, color string, q int64) OrderLine {
	return OrderLine{CustomerName: customer, Sku: sku, Brand: brand, ProductName: product, Color: color, Quantity: qty(q)}
}

func TestSplit_PreservesOrder(t *testing.T) {
	lines := []OrderLine{
		line("A", "S2", CategoryKit, "K", "Red", 1),
		line("B", "S1", CategoryFabric, "F", "", 1),
		line("C", "S1", CategoryKit, "K", "Blue", 1),
		line("D", "S9", CategoryBundle, "B", "", 1),
	}

	s := Split(lines)
	require.Len(t, s.Kit, 2)
	assert.Equal(t, "A", s.Kit[0].CustomerName)
	assert.Equal(t, "C", s.Kit[1].CustomerName)
	assert.Len(t, s.Fabric, 1)
	assert.Len(t, s.Bundle, 1)
	assert.Empty(t, Split(nil).Fabric)
}

func TestAggregate_FabricIgnoresColor(t *testing.T) {
	lines := []OrderLine{
		line("Alice", "S1", CategoryFabric, "Denim", "Blue", 1),
		line("Alice", "S1", CategoryFabric, "Denim", "Black", 2),
	}

	agg := Aggregate(lines, false)
	require.Len(t, agg, 1)
	assert.Equal(t, int64(3), agg[0].Quantity)
	assert.Equal(t, "", agg[0].Color)
}

func TestAggregate_KitColorsNeverMerge(t *testing.T) {
	s := Streams{Kit: []OrderLine{
		line("Alice", "K1", CategoryKit, "Quilt Kit", "Red", 1),
		line("Alice", "K1", CategoryKit, "Quilt Kit", "Green", 1),
		line("Alice", "K1", CategoryKit, "Quilt Kit", "Red", 1),
	}}

	main, _ := AggregateStreams(s, true)
	require.Len(t, main, 2)
	assert.Equal(t, "Red", main[0].Color)
	assert.Equal(t, int64(2), main[0].Quantity)
	assert.Equal(t, "Green", main[1].Color)
	assert.Equal(t, int64(1), main[1].Quantity)

	dropped, _ := AggregateStreams(s, false)
	require.Len(t, dropped, 2)
	for _, l := range dropped {
		assert.Equal(t, "", l.Color)
	}
}

func TestAggregate_SkipsNullQuantities(t *testing.T) {
	lines := []OrderLine{
		line("A", "S1", CategoryFabric, "F", "", 2),
		{CustomerName: "A", Sku: "S1", Brand: CategoryFabric, ProductName: "F"},
		{CustomerName: "B", Sku: "S1", Brand: CategoryFabric, ProductName: "F"},
	}

	agg := Aggregate(lines, false)
	require.Len(t, agg, 1)
	assert.Equal(t, "A", agg[0].CustomerName)
	assert.Equal(t, int64(2), agg[0].Quantity)
}

func TestAggregateStreams_MainAndBundleSeparate(t *testing.T) {
	s := Split([]OrderLine{
		line("A", "S2", CategoryFabric, "F", "", 1),
		line("A", "S1", CategoryKit, "K", "Red", 3),
		line("B", "S1", CategoryFabric, "F1", "", 5),
		line("A", "B1", CategoryBundle, "B", "", 4),
	})

	main, bundle := AggregateStreams(s, true)
	require.Len(t, main, 3)
	assert.Equal(t, []string{"S1", "S1", "S2"}, []string{main[0].Sku, main[1].Sku, main[2].Sku})
	assert.Equal(t, int64(5), main[0].Quantity)
	assert.Equal(t, int64(3), main[1].Quantity)
	require.Len(t, bundle, 1)
	assert.Equal(t, CategoryBundle, bundle[0].Brand)
}

func TestAggregate_ShuffleInvariance(t *testing.T) {
	var lines []OrderLine
	customers := []string{"A", "B", "C", "D"}
	for i := 0; i < 60; i++ {
		c := customers[i%len(customers)]
		switch i % 3 {
		case 0:
			lines = append(lines, line(c, "S1", CategoryFabric, "Denim", "", int64(i%4+1)))
		case 1:
			color := []string{"Red", "Blue"}[i%2]
			lines = append(lines, line(c, "K1", CategoryKit, "Kit", color, int64(i%3+1)))
		default:
			lines = append(lines, line(c, "B1", CategoryBundle, "Bundle", "", int64(i%2+1)))
		}
	}

	sums := func(ls []OrderLine) (map[AggregatedLine]bool, []TallyBucket, []TallyBucket) {
		main, bundle := AggregateStreams(Split(ls), true)
		set := make(map[AggregatedLine]bool)
		for _, l := range append(append([]AggregatedLine{}, main...), bundle...) {
			set[l] = true
		}
		return set, Tally(main), Tally(bundle)
	}

	wantSet, wantMain, wantBundle := sums(lines)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		shuffled := append([]OrderLine(nil), lines...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		gotSet, gotMain, gotBundle := sums(shuffled)
		assert.Equal(t, wantSet, gotSet)
		assert.Equal(t, wantMain, gotMain)
		assert.Equal(t, wantBundle, gotBundle)
	}
}
