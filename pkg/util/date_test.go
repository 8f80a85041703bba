package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)

	got, ok := ParseDate("2024-10-10")
	assert.True(t, ok)
	assert.Equal(t, want, got)

	got, ok = ParseDate("2024-10-10T00:00:00Z")
	assert.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = ParseDate(strconv.FormatInt(want.Unix(), 10))
	assert.True(t, ok)
	assert.True(t, got.Equal(want))

	_, ok = ParseDate(".")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2000-01-01", FormatDate(&d))
	assert.Equal(t, "", FormatDate(nil))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"USA", "France"}, SplitCSV(" USA, ,France,"))
	assert.Nil(t, SplitCSV("  "))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 8080, ParseIntDefault("", 8080))
	assert.Equal(t, 9, ParseIntDefault(" 9", 8080))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
}
