package report

import (
	"iter"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Stats struct {
	OrderCount       int            `json:"orderCount"`
	Revenue          int64          `json:"revenue"`
	UnitsSold        int            `json:"unitsSold"`
	PerCategoryUnits map[Bucket]int `json:"perCategoryUnits"`
}

func Aggregate(rows iter.Seq[Row]) Stats {
	st := Stats{PerCategoryUnits: make(map[Bucket]int, len(Buckets))}
	for _, b := range Buckets {
		st.PerCategoryUnits[b] = 0
	}

	orders := make(map[uuid.UUID]struct{})
	for r := range rows {
		orders[r.OrderID] = struct{}{}
		st.Revenue += r.Revenue()
		st.UnitsSold += r.Quantity
		if b := BucketOf(r.Category); b != Other {
			st.PerCategoryUnits[b] += r.Quantity
		}
	}
	st.OrderCount = len(orders)
	return st
}

// SummarizeByName sums quantity per item name for rows whose category
// matches bucket. The map has no order; use Ranked for display.
func SummarizeByName(rows iter.Seq[Row], bucket Bucket) map[string]int {
	out := make(map[string]int)
	for r := range rows {
		if bucket.Matches(r.Category) {
			out[r.ItemName] += r.Quantity
		}
	}
	return out
}

type NameTotal struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// Ranked sorts a summary by descending total, ties by name.
func Ranked(summary map[string]int) []NameTotal {
	out := make([]NameTotal, 0, len(summary))
	for name, total := range summary {
		out = append(out, NameTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type DayRevenue struct {
	Day      string `json:"day"`
	Food     int64  `json:"food"`
	Beverage int64  `json:"beverage"`
	Dessert  int64  `json:"dessert"`
}

// WeekdayChart sums revenue per bucket per day of week, Mon through Sun.
// Dates from different weeks share a slot.
func WeekdayChart(rows iter.Seq[Row], loc *time.Location) []DayRevenue {
	if loc == nil {
		loc = time.UTC
	}

	chart := make([]DayRevenue, len(WeekdayLabels))
	for i, l := range WeekdayLabels {
		chart[i].Day = l
	}

	for r := range rows {
		// time.Weekday starts at Sunday.
		slot := (int(r.OrderDate.In(loc).Weekday()) + 6) % 7
		switch BucketOf(r.Category) {
		case Food:
			chart[slot].Food += r.Revenue()
		case Beverage:
			chart[slot].Beverage += r.Revenue()
		case Dessert:
			chart[slot].Dessert += r.Revenue()
		}
	}
	return chart
}
