package cutsheet

import (
	"cmp"
	"slices"
)

type productKey struct {
	sku     string
	brand   Category
	product string
	color   string
}

func (k productKey) compare(o productKey) int {
	return cmp.Or(
		cmp.Compare(k.sku, o.sku),
		cmp.Compare(k.brand, o.brand),
		cmp.Compare(k.product, o.product),
		cmp.Compare(k.color, o.color),
	)
}

type bucketKey struct {
	productKey
	quantity int64
}

// Tally counts aggregated lines per (sku, brand, product, color, quantity).
// Buckets come back sorted by that key, quantity ascending last.
func Tally(lines []AggregatedLine) []TallyBucket {
	counts := make(map[bucketKey]int)
	for _, l := range lines {
		k := bucketKey{
			productKey: productKey{sku: l.Sku, brand: l.Brand, product: l.ProductName, color: l.Color},
			quantity:   l.Quantity,
		}
		counts[k]++
	}

	out := make([]TallyBucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, TallyBucket{
			Sku:         k.sku,
			Brand:       k.brand,
			ProductName: k.product,
			Color:       k.color,
			Quantity:    k.quantity,
			Count:       n,
		})
	}
	slices.SortFunc(out, func(a, b TallyBucket) int {
		if c := a.key().compare(b.key()); c != 0 {
			return c
		}
		return cmp.Compare(a.Quantity, b.Quantity)
	})
	return out
}

func (b TallyBucket) key() productKey {
	return productKey{sku: b.Sku, brand: b.Brand, product: b.ProductName, color: b.Color}
}

// Pivot reshapes buckets into one row per product key. The returned
// quantity domain is every distinct quantity in the tally, ascending, and
// each row carries a count for all of them (zero when absent). Totals are
// left for Assemble.
func Pivot(buckets []TallyBucket) ([]int64, []ReportRow) {
	var domain []int64
	seen := make(map[int64]bool)
	for _, b := range buckets {
		if !seen[b.Quantity] {
			seen[b.Quantity] = true
			domain = append(domain, b.Quantity)
		}
	}
	slices.Sort(domain)

	index := make(map[productKey]int)
	var rows []ReportRow
	var keys []productKey
	for _, b := range buckets {
		k := b.key()
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			counts := make(map[int64]int, len(domain))
			for _, q := range domain {
				counts[q] = 0
			}
			rows = append(rows, ReportRow{
				Brand:       b.Brand,
				Sku:         b.Sku,
				ProductName: b.ProductName,
				Color:       b.Color,
				Counts:      counts,
			})
			keys = append(keys, k)
		}
		rows[i].Counts[b.Quantity] += b.Count
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return keys[a].compare(keys[b]) })
	sorted := make([]ReportRow, len(rows))
	for i, j := range order {
		sorted[i] = rows[j]
	}
	return domain, sorted
}
