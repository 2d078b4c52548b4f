package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 1.75, Quantile(values, 0.25))
	assert.Equal(t, 2.5, Quantile(values, 0.5))
	assert.Equal(t, 3.25, Quantile(values, 0.75))
	assert.Equal(t, 4.0, Quantile(values, 1))
}

func TestQuantile_SingleValue(t *testing.T) {
	assert.Equal(t, 9.5, Quantile([]float64{9.5}, 0.5))
}

func TestMakeBuckets(t *testing.T) {
	t.Run("even spread yields four buckets", func(t *testing.T) {
		temps := []float64{10, 12, 14, 16, 18, 20, 22, 24}

		buckets, err := MakeBuckets(temps)
		require.NoError(t, err)
		require.Len(t, buckets, 4)

		assert.Equal(t, Bucket{Low: 10, High: 13.5}, buckets[0])
		assert.Equal(t, Bucket{Low: 13.5, High: 17}, buckets[1])
		assert.Equal(t, Bucket{Low: 17, High: 20.5}, buckets[2])
		assert.Equal(t, Bucket{Low: 20.5, High: 24, Closed: true}, buckets[3])

		// Boundaries are contiguous and non-decreasing.
		for i := 1; i < len(buckets); i++ {
			assert.Equal(t, buckets[i-1].High, buckets[i].Low)
			assert.LessOrEqual(t, buckets[i].Low, buckets[i].High)
		}
	})

	t.Run("unsorted input", func(t *testing.T) {
		buckets, err := MakeBuckets([]float64{24, 10, 18, 12, 22, 14, 20, 16})
		require.NoError(t, err)
		require.Len(t, buckets, 4)
		assert.Equal(t, 10.0, buckets[0].Low)
		assert.Equal(t, 24.0, buckets[3].High)
	})

	t.Run("duplicate quartiles collapse", func(t *testing.T) {
		// Three quartiles all land on 5, leaving a single interval.
		buckets, err := MakeBuckets([]float64{5, 5, 5, 5, 10})
		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.Equal(t, Bucket{Low: 5, High: 10, Closed: true}, buckets[0])
	})

	t.Run("all values identical", func(t *testing.T) {
		buckets, err := MakeBuckets([]float64{7, 7, 7})
		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.True(t, buckets[0].Contains(7))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := MakeBuckets(nil)
		require.ErrorIs(t, err, ErrNoTemperatureData)
	})

	t.Run("never more than four buckets", func(t *testing.T) {
		temps := make([]float64, 100)
		for i := range temps {
			temps[i] = float64(i) * 0.3
		}
		buckets, err := MakeBuckets(temps)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(buckets), 4)
	})
}

func TestAssignBucket(t *testing.T) {
	buckets := []Bucket{
		{Low: 10, High: 13.5},
		{Low: 13.5, High: 17},
		{Low: 17, High: 20.5},
		{Low: 20.5, High: 24, Closed: true},
	}

	tests := []struct {
		name string
		temp float64
		want int
	}{
		{"batch minimum", 10, 0},
		{"boundary belongs to upper bucket", 13.5, 1},
		{"interior value", 18.2, 2},
		{"batch maximum included", 24, 3},
		{"below range", 9.9, -1},
		{"above range", 24.1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssignBucket(buckets, tt.temp))
		})
	}
}

func TestBucketLabel(t *testing.T) {
	assert.Equal(t, "[12.5, 18)", Bucket{Low: 12.5, High: 18}.Label())
	assert.Equal(t, "[18, 25.4]", Bucket{Low: 18, High: 25.4, Closed: true}.Label())
	assert.Equal(t, "[-3.5, 0)", Bucket{Low: -3.5, High: 0}.Label())
}
