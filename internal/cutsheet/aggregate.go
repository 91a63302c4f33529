package cutsheet

import (
	"cmp"
	"slices"
)

// Streams holds normalized lines partitioned by category, each in input order.
type Streams struct {
	Fabric []OrderLine
	Kit    []OrderLine
	Bundle []OrderLine
}

// Split partitions lines by brand. It never reorders within a partition.
func Split(lines []OrderLine) Streams {
	var s Streams
	for _, l := range lines {
		switch l.Brand {
		case CategoryFabric:
			s.Fabric = append(s.Fabric, l)
		case CategoryKit:
			s.Kit = append(s.Kit, l)
		case CategoryBundle:
			s.Bundle = append(s.Bundle, l)
		}
	}
	return s
}

// Of returns the stream for c.
func (s Streams) Of(c Category) []OrderLine {
	switch c {
	case CategoryFabric:
		return s.Fabric
	case CategoryKit:
		return s.Kit
	case CategoryBundle:
		return s.Bundle
	}
	return nil
}

type groupKey struct {
	customer, sku  string
	brand          Category
	product, color string
}

// Aggregate sums quantity per (customer, sku, brand, product), adding color
// to the key when withColor is set. Lines with a nil quantity are skipped,
// so a group made only of unusable rows never appears. Output follows first
// encounter order.
func Aggregate(lines []OrderLine, withColor bool) []AggregatedLine {
	index := make(map[groupKey]int)
	var out []AggregatedLine
	for _, l := range lines {
		if l.Quantity == nil {
			continue
		}
		k := groupKey{customer: l.CustomerName, sku: l.Sku, brand: l.Brand, product: l.ProductName}
		if withColor {
			k.color = l.Color
		}
		if i, ok := index[k]; ok {
			out[i].Quantity += *l.Quantity
			continue
		}
		index[k] = len(out)
		out = append(out, AggregatedLine{
			CustomerName: k.customer,
			Sku:          k.sku,
			Brand:        k.brand,
			ProductName:  k.product,
			Color:        k.color,
			Quantity:     *l.Quantity,
		})
	}
	return out
}

// AggregateStreams builds the main (fabric + kit) and bundle sequences.
// Kit lines are grouped with color; when keepKitColor is false the color is
// cleared afterwards, so differently coloured kits stay separate lines but
// print without a color.
func AggregateStreams(s Streams, keepKitColor bool) (main, bundle []AggregatedLine) {
	kits := Aggregate(s.Kit, true)
	if !keepKitColor {
		for i := range kits {
			kits[i].Color = ""
		}
	}
	main = append(Aggregate(s.Fabric, false), kits...)
	bundle = Aggregate(s.Bundle, false)
	SortForReport(main)
	SortForReport(bundle)
	return main, bundle
}

// SortForReport orders lines by sku ascending then quantity descending.
// The sort is stable, so equal keys keep encounter order.
func SortForReport(lines []AggregatedLine) {
	slices.SortStableFunc(lines, func(a, b AggregatedLine) int {
		if c := cmp.Compare(a.Sku, b.Sku); c != 0 {
			return c
		}
		return cmp.Compare(b.Quantity, a.Quantity)
	})
}
