// Package listing orders the property collection and pages through blog
// posts.
package listing

import (
	"sort"

	"github.com/eringen/tolet/api"
)

// SortKey names a property ordering.
type SortKey string

const (
	SortNone       SortKey = ""
	SortDate       SortKey = "date"
	SortLowToHigh  SortKey = "lowToHigh"
	SortHighToLow  SortKey = "highToLow"
	SortPopularity SortKey = "popularity"
)

// SortOption is one entry of the sort dropdown.
type SortOption struct {
	Key   SortKey
	Label string
}

// SortOptions lists the dropdown in display order.
var SortOptions = []SortOption{
	{Key: SortDate, Label: "Date Uploaded"},
	{Key: SortLowToHigh, Label: "Price: Low to High"},
	{Key: SortHighToLow, Label: "Price: High to Low"},
	{Key: SortPopularity, Label: "Popularity"},
}

// ParseSortKey maps a query value to a key; unknown values give SortNone.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortDate, SortLowToHigh, SortHighToLow, SortPopularity:
		return k
	default:
		return SortNone
	}
}

// Sort returns a sorted copy of props. The input is never reordered. Ties
// keep their fetched order. SortNone returns the copy unchanged.
func Sort(props []api.Property, key SortKey) []api.Property {
	out := append([]api.Property(nil), props...)
	var less func(a, b api.Property) bool
	switch key {
	case SortDate:
		less = func(a, b api.Property) bool { return a.Uploaded().After(b.Uploaded()) }
	case SortLowToHigh:
		less = func(a, b api.Property) bool { return a.Rent < b.Rent }
	case SortHighToLow:
		less = func(a, b api.Property) bool { return a.Rent > b.Rent }
	case SortPopularity:
		less = func(a, b api.Property) bool { return a.Views > b.Views }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
