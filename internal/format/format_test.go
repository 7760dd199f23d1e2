package format_test

import (
	"strings"
	"testing"

	"github.com/0xmountaintop/scroll-rank-bot/internal/format"
	"github.com/0xmountaintop/scroll-rank-bot/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMagnitude(t *testing.T) {
	t.Parallel()

	t.Run("nil should be N/A", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "N/A", format.Magnitude(nil))
	})

	t.Run("known values", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "1.50 B", format.Magnitude(models.Float64(1_500_000_000)))
		assert.Equal(t, "2.30 M", format.Magnitude(models.Float64(2_300_000)))
		assert.Equal(t, "500", format.Magnitude(models.Float64(500)))
		assert.Equal(t, "0", format.Magnitude(models.Float64(0)))
		assert.Equal(t, "999,999", format.Magnitude(models.Float64(999_999)))
	})

	t.Run("suffix follows the magnitude band", func(t *testing.T) {
		t.Parallel()

		for _, v := range []float64{1e9, 2.5e9, 1e12} {
			assert.True(t, strings.HasSuffix(format.Magnitude(models.Float64(v)), " B"), v)
		}
		for _, v := range []float64{1e6, 5.5e6, 999_999_999} {
			assert.True(t, strings.HasSuffix(format.Magnitude(models.Float64(v)), " M"), v)
		}
		for _, v := range []float64{0, 1, 999_999} {
			out := format.Magnitude(models.Float64(v))
			assert.False(t, strings.HasSuffix(out, " B") || strings.HasSuffix(out, " M"), v)
		}
	})
}

func TestPrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "N/A", format.Price(nil))
	assert.Equal(t, "$1.2346", format.Price(models.Float64(1.23456)))
	assert.Equal(t, "$0.0000", format.Price(models.Float64(0)))
}

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "33.33%", format.Ratio(1.0/3))
	assert.Equal(t, "0.00%", format.Ratio(0))
	assert.Equal(t, "100.00%", format.Ratio(1))
}

func TestChange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5.5", format.Change(models.Float64(5.5)))
	assert.Equal(t, "-1.234567", format.Change(models.Float64(-1.234567)))
	assert.Equal(t, "null", format.Change(nil))
}

func TestGwei(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "N/A", format.Gwei(nil))
	assert.Equal(t, "12.35", format.Gwei(models.Float64(12.345678)))
}
