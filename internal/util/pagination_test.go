package util

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		want       Page
	}{
		{"first page", 1, 10, Page{Offset: 0, Limit: 10}},
		{"third page", 3, 10, Page{Offset: 20, Limit: 10}},
		{"page below one", 0, 5, Page{Offset: 0, Limit: 5}},
		{"default size", 2, 0, Page{Offset: DefaultPageSize, Limit: DefaultPageSize}},
		{"size capped", 2, 1000, Page{Offset: MaxPageSize, Limit: MaxPageSize}},
		{"page clamped", math.MaxInt, MaxPageSize, Page{Offset: (MaxPage - 1) * MaxPageSize, Limit: MaxPageSize}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Calculate(tc.page, tc.size))
		})
	}
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage("", "")
	require.NoError(t, err)
	assert.Equal(t, Page{}, p)

	p, err = ParsePage("2", "")
	require.NoError(t, err)
	assert.Equal(t, Page{Offset: DefaultPageSize, Limit: DefaultPageSize}, p)

	p, err = ParsePage("", "5")
	require.NoError(t, err)
	assert.Equal(t, Page{Offset: 0, Limit: 5}, p)

	for _, bad := range [][2]string{
		{"0", "5"}, {"x", ""}, {"1", "-3"},
		{strconv.Itoa(MaxPage + 1), "100"},
		{"99999999999999999999", ""},
	} {
		_, err := ParsePage(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrBadPage, "page=%q size=%q", bad[0], bad[1])
	}
}

func TestParsePage_LargestPageStaysPositive(t *testing.T) {
	p, err := ParsePage(strconv.Itoa(MaxPage), strconv.Itoa(MaxPageSize))
	require.NoError(t, err)
	assert.Positive(t, p.Offset)
	assert.Equal(t, MaxPageSize, p.Limit)
}
