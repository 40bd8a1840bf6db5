package report

import (
	"iter"
	"strings"
	"time"
)

type Filter struct {
	// DateStart and DateEnd are calendar days; only their year, month and
	// day are read, and the day is taken to run from 00:00:00.000 to
	// 23:59:59.999 in Location. Both bounds are inclusive.
	DateStart *time.Time
	DateEnd   *time.Time
	Location  *time.Location

	Category  string
	OrderType string
	Keyword   string

	PaidOnly        bool
	ExcludeArchived bool
}

// Dashboard returns a copy of f restricted to completed sales.
func (f Filter) Dashboard() Filter {
	f.PaidOnly = true
	return f
}

func (f Filter) loc() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, loc)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (f Filter) Match(r Row) bool {
	if f.PaidOnly && !r.IsPaid {
		return false
	}
	if f.ExcludeArchived && r.IsArchived {
		return false
	}

	loc := f.loc()
	if f.DateStart != nil && r.OrderDate.Before(startOfDay(*f.DateStart, loc)) {
		return false
	}
	if f.DateEnd != nil && r.OrderDate.After(endOfDay(*f.DateEnd, loc)) {
		return false
	}

	if f.Category != "" && !containsFold(r.Category, f.Category) {
		return false
	}
	if f.OrderType != "" && !containsFold(r.OrderType, f.OrderType) {
		return false
	}

	if f.Keyword == "" {
		return true
	}
	return containsFold(r.OrderNumber, f.Keyword) ||
		containsFold(r.CustomerName, f.Keyword) ||
		containsFold(r.ItemName, f.Keyword) ||
		containsFold(r.Category, f.Keyword)
}

func (f Filter) Apply(rows iter.Seq[Row]) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for r := range rows {
			if f.Match(r) && !yield(r) {
				return
			}
		}
	}
}
