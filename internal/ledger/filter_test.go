package ledger

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtstats/internal/model"
)

func day(d int) civil.Date {
	return civil.Date{Year: 2024, Month: time.January, Day: d}
}

func TestRange_Validate(t *testing.T) {
	assert.NoError(t, Range{Start: day(1), End: day(1)}.Validate())
	assert.NoError(t, Range{Start: day(1), End: day(31)}.Validate())

	err := Range{Start: day(10), End: day(2)}.Validate()
	var rerr *InvalidRangeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, day(10), rerr.Start)
	assert.Equal(t, day(2), rerr.End)
}

func TestFilter_InclusiveBounds(t *testing.T) {
	l := model.Ledger{
		{Date: day(1), Currency: "GBP"},
		{Date: day(5), Currency: "GBP"},
		{Date: day(10), Currency: "GBP"},
		{Date: day(11), Currency: "GBP"},
	}
	got, err := Filter(l, Range{Start: day(5), End: day(10)}, "GBP")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, day(5), got[0].Date)
	assert.Equal(t, day(10), got[1].Date)
}

func TestFilter_Currency(t *testing.T) {
	l := model.Ledger{
		{Date: day(1), Currency: "GBP", Description: "a"},
		{Date: day(2), Currency: "EUR", Description: "b"},
	}
	r := Range{Start: day(1), End: day(31)}

	got, err := Filter(l, r, "eur")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Description)

	got, err = Filter(l, r, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Filter(l, r, "XX")
	assert.Error(t, err)
}

func TestFilter_InvertedRange(t *testing.T) {
	l := model.Ledger{{Date: day(3), Currency: "GBP"}}
	got, err := Filter(l, Range{Start: day(4), End: day(3)}, "GBP")
	assert.Nil(t, got)
	var rerr *InvalidRangeError
	assert.ErrorAs(t, err, &rerr)
}

func TestBounds(t *testing.T) {
	_, ok := Bounds(nil)
	assert.False(t, ok)

	r, ok := Bounds(model.Ledger{{Date: day(2)}, {Date: day(9)}})
	require.True(t, ok)
	assert.Equal(t, Range{Start: day(2), End: day(9)}, r)
	assert.Equal(t, "2024-01-02..2024-01-09", r.String())
}

func TestIsOpen(t *testing.T) {
	assert.True(t, IsOpen(civil.Date{}))
	assert.False(t, IsOpen(day(1)))
}
