package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendboard/trendboard/schema"
)

func shadowCfg(periods int, unit schema.PeriodUnit) schema.ShadowConfig {
	cfg, err := schema.NewShadowConfig("s", periods, unit, "test shadow")
	if err != nil {
		panic(err)
	}
	return cfg
}

// TestGenerateShadow tests single-shadow generation.
func TestGenerateShadow(t *testing.T) {
	t.Run("year round trip on daily series", func(t *testing.T) {
		// Two full years of daily data; every live point in the second year
		// must match a historical point within 1-2 days of a year prior.
		start := date(2022, 1, 1)
		s := dailySeries(start, 730, func(i int) (float64, float64) {
			return float64(i), 1
		})

		shadow := GenerateShadow(s, shadowCfg(1, schema.UnitYear))
		byTime := make(map[int64]schema.Point, len(shadow))
		for _, p := range shadow {
			byTime[p.Timestamp.Unix()] = p
		}

		for _, live := range s[400:] {
			match, ok := byTime[live.Timestamp.Unix()]
			require.True(t, ok, "live point %s has no shadow", live.Timestamp)

			// The matched value encodes its own day index; check the
			// reference it came from is within 2 days of exactly one year
			// prior.
			ref := live.Timestamp.AddDate(-1, 0, 0)
			matchedDay := start.AddDate(0, 0, int(match.Numerator))
			dist := math.Abs(ref.Sub(matchedDay).Hours() / 24)
			assert.LessOrEqual(t, dist, 2.0)
		}
	})

	t.Run("out-of-range references are absent", func(t *testing.T) {
		s := dailySeries(date(2024, 1, 1), 30, func(i int) (float64, float64) {
			return float64(i), 1
		})
		shadow := GenerateShadow(s, shadowCfg(1, schema.UnitYear))
		// Every reference lands a year before the series starts.
		assert.Empty(t, shadow)
	})

	t.Run("weekday alignment compares like weekdays", func(t *testing.T) {
		s := dailySeries(date(2024, 1, 1), 90, func(i int) (float64, float64) {
			return float64(i), 1
		})
		cfg := shadowCfg(1, schema.UnitMonth)
		cfg.AlignDayOfWeek = true

		shadow := GenerateShadow(s, cfg)
		require.NotEmpty(t, shadow)
		for _, p := range shadow[40:] {
			// Matched source day = numerator index; daily series means the
			// match is exact, so weekdays line up.
			matched := date(2024, 1, 1).AddDate(0, 0, int(p.Numerator))
			assert.Equal(t, p.Timestamp.Weekday(), matched.Weekday())
		}
	})

	t.Run("disabled shadow yields nothing", func(t *testing.T) {
		s := dailySeries(date(2024, 1, 1), 10, func(i int) (float64, float64) { return 1, 1 })
		cfg := shadowCfg(1, schema.UnitWeek)
		cfg.Enabled = false
		assert.Empty(t, GenerateShadow(s, cfg))
	})
}

// TestAverageShadows tests across-shadow statistics.
func TestAverageShadows(t *testing.T) {
	t.Run("known values give known statistics", func(t *testing.T) {
		// A series whose value is constant per 10-day block: 10, 20, 30, 40.
		// At a live point in the last block, shadows reaching back 1, 2 and
		// 3 blocks see constant values 30, 20 and 10.
		s := dailySeries(date(2024, 1, 1), 40, func(i int) (float64, float64) {
			return float64((i/10 + 1) * 10), 1
		})
		shadows := []schema.ShadowConfig{
			shadowCfg(10, schema.UnitDay),
			shadowCfg(20, schema.UnitDay),
			shadowCfg(30, schema.UnitDay),
		}

		avg := AverageShadows(s, shadows)
		require.NotEmpty(t, avg)

		byTime := make(map[int64]schema.ShadowAveragePoint, len(avg))
		for _, p := range avg {
			byTime[p.Timestamp.Unix()] = p
		}
		p, ok := byTime[date(2024, 2, 4).Unix()] // day 34, mid last block
		require.True(t, ok)
		assert.InDelta(t, 20, p.Mean, 1e-9)
		// Sample standard deviation of {10,20,30}.
		assert.InDelta(t, 10, p.StdDev, 1e-9)
	})

	t.Run("single shadow has zero stddev", func(t *testing.T) {
		s := dailySeries(date(2024, 1, 1), 20, func(i int) (float64, float64) {
			return float64(i), 1
		})
		avg := AverageShadows(s, []schema.ShadowConfig{shadowCfg(5, schema.UnitDay)})
		require.NotEmpty(t, avg)
		for _, p := range avg {
			assert.Zero(t, p.StdDev)
		}
	})

	t.Run("missing shadows are excluded, not zero", func(t *testing.T) {
		s := dailySeries(date(2024, 1, 1), 20, func(i int) (float64, float64) {
			return 50, 1
		})
		// The 1-year shadow has no data at all; the mean must come from the
		// 5-day shadow alone instead of being dragged toward zero.
		avg := AverageShadows(s, []schema.ShadowConfig{
			shadowCfg(5, schema.UnitDay),
			shadowCfg(1, schema.UnitYear),
		})
		require.NotEmpty(t, avg)
		for _, p := range avg {
			assert.InDelta(t, 50, p.Mean, 1e-9)
		}
	})

	t.Run("no enabled shadows", func(t *testing.T) {
		s := dailySeries(date(2024, 1, 1), 5, func(i int) (float64, float64) { return 1, 1 })
		cfg := shadowCfg(1, schema.UnitWeek)
		cfg.Enabled = false
		assert.Nil(t, AverageShadows(s, []schema.ShadowConfig{cfg}))
	})
}
