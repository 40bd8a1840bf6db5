package report

import "strings"

type Bucket string

const (
	Food     Bucket = "Food"
	Beverage Bucket = "Beverage"
	Dessert  Bucket = "Dessert"
	Other    Bucket = "Other"
)

// Buckets lists the reported buckets in display order. Other is not reported.
var Buckets = []Bucket{Food, Beverage, Dessert}

// BucketOf maps free-text category to a bucket by case-insensitive substring
// containment, checked in the order food, beverage, dessert. "Beverages"
// and "Cold Beverage" both land in Beverage; "Seafood" lands in Food.
func BucketOf(category string) Bucket {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "food"):
		return Food
	case strings.Contains(c, "beverage"):
		return Beverage
	case strings.Contains(c, "dessert"):
		return Dessert
	default:
		return Other
	}
}

// Matches reports whether category belongs to b for per-item summaries.
// Unlike BucketOf this is not exclusive: "Food & Dessert" matches both Food
// and Dessert. Other matches what no named bucket claims.
func (b Bucket) Matches(category string) bool {
	if b == Other {
		return BucketOf(category) == Other
	}
	return strings.Contains(strings.ToLower(category), strings.ToLower(string(b)))
}
