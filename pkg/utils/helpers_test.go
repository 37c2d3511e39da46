package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampAndFillPercent(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(11, 0, 10))
	assert.Equal(t, 33.3, FillPercent(1, 3))
	assert.Equal(t, 100.0, FillPercent(5, 4))
	assert.Equal(t, 0.0, FillPercent(3, 0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "스터디...", Truncate("스터디 모집합니다", 3))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestDateTimeLocalRoundTrip(t *testing.T) {
	parsed, err := ParseDateTimeLocal("2025-03-01T18:30", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, "2025-03-01T18:30", DateTimeLocal(parsed))
	assert.Equal(t, "2025-03-01 18:30", FormatDateTime(parsed))

	none, err := ParseDateTimeLocal("  ", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.Empty(t, FormatDateTime(none))

	_, err = ParseDateTimeLocal("tomorrow", time.UTC)
	require.Error(t, err)
}

func TestParseDateTimeLocalWithSeconds(t *testing.T) {
	parsed, err := ParseDateTimeLocal("2025-03-01T18:30:45", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2025, 3, 1, 18, 30, 45, 0, time.UTC), *parsed)
	assert.Equal(t, "2025-03-01T18:30", DateTimeLocal(parsed))

	_, err = ParseDateTimeLocal("2025-03-01T18:30:45Z", time.UTC)
	require.Error(t, err)
}
