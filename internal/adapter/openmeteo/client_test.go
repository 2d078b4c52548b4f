package openmeteo

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dayResponse = `{
	"hourly": {
		"time": ["2025-03-24T00:00", "2025-03-24T12:00", "2025-03-24T13:00"],
		"temperature_2m": [4.1, 8.4, null],
		"relativehumidity_2m": [88, 71, 70]
	}
}`

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := NewClient(srv.URL, 2*time.Second, slog.Default())
	c.initialBackoff = time.Millisecond
	c.maxBackoff = 5 * time.Millisecond
	return c
}

func TestFetchDay(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(dayResponse)) //nolint:errcheck
	}))
	defer srv.Close()

	series, err := testClient(t, srv).FetchDay(context.Background(), 52.52, 13.405, "2025-03-24")
	require.NoError(t, err)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, "52.52", q["latitude"][0])
	assert.Equal(t, "13.405", q["longitude"][0])
	assert.Equal(t, "2025-03-24", q["start_date"][0])
	assert.Equal(t, "2025-03-24", q["end_date"][0])
	assert.Equal(t, "temperature_2m,relativehumidity_2m", q["hourly"][0])
	assert.Equal(t, "UTC", q["timezone"][0])

	require.Len(t, series.Time, 3)
	require.NotNil(t, series.Temperature[1])
	assert.Equal(t, 8.4, *series.Temperature[1])
	assert.Nil(t, series.Temperature[2])
}

func TestFetchDay_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(dayResponse)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := testClient(t, srv).FetchDay(context.Background(), 52.52, 13.405, "2025-03-24")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestFetchDay_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid date", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).FetchDay(context.Background(), 52.52, 13.405, "not-a-date")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int64(1), calls.Load())
}

func TestFetchDay_EmptyHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"time":[]}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := testClient(t, srv).FetchDay(context.Background(), 52.52, 13.405, "2025-03-24")
	require.ErrorIs(t, err, ErrNoHourlyData)
}

func TestFetchDay_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(dayResponse)) //nolint:errcheck
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(t, srv).FetchDay(ctx, 52.52, 13.405, "2025-03-24")
	require.ErrorIs(t, err, context.Canceled)
}

func TestHourlySeries_At(t *testing.T) {
	temp := func(v float64) *float64 { return &v }
	series := HourlySeries{
		Time:             []string{"2025-03-24T00:00", "2025-03-24T12:00"},
		Temperature:      []*float64{temp(4.1), temp(8.4)},
		RelativeHumidity: []*float64{temp(88), temp(71)},
	}

	t.Run("exact hour match", func(t *testing.T) {
		rec, err := series.At(12)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-24T12:00", rec.Time)
		assert.Equal(t, 8.4, *rec.Temperature)
		assert.Equal(t, 71.0, *rec.RelativeHumidity)
	})

	t.Run("no match falls back to first record", func(t *testing.T) {
		rec, err := series.At(7)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-24T00:00", rec.Time)
		assert.Equal(t, 4.1, *rec.Temperature)
	})

	t.Run("empty series", func(t *testing.T) {
		_, err := HourlySeries{}.At(12)
		require.ErrorIs(t, err, ErrNoHourlyData)
	})
}
