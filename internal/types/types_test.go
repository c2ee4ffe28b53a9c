package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateRangeContains(t *testing.T) {
	r := DateRange{After: "1995-01-01", Before: "2023-12-31"}

	assert.True(t, r.Contains("1995-01-01"))
	assert.True(t, r.Contains("2023-12-31"))
	assert.True(t, r.Contains("2010-06-15"))
	assert.False(t, r.Contains("1994-12-31"))
	assert.False(t, r.Contains("2024-01-01"))

	assert.True(t, DateRange{}.Contains("1900-01-01"))
	assert.True(t, DateRange{After: "2000-01-01"}.Contains("2999-01-01"))
}
