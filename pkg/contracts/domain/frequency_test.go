package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in   string
		want Frequency
	}{
		{"H", Hourly},
		{"D", Daily},
		{"15T", Frequency("15T")},
		{"min", Minutely},
		{"30min", Frequency("30T")},
		{"1H", Hourly},
		{" H ", Hourly},
	}
	for _, tt := range tests {
		got, err := ParseFrequency(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseFrequency_Invalid(t *testing.T) {
	for _, in := range []string{"", "X", "15", "0H", "-1H", "H15"} {
		_, err := ParseFrequency(in)
		assert.Error(t, err, in)
	}
}

func TestFrequencyDuration(t *testing.T) {
	tests := []struct {
		f    Frequency
		want time.Duration
	}{
		{Secondly, time.Second},
		{Minutely, time.Minute},
		{Hourly, time.Hour},
		{Daily, 24 * time.Hour},
		{"15T", 15 * time.Minute},
		{"3H", 3 * time.Hour},
	}
	for _, tt := range tests {
		got, err := tt.f.Duration()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, string(tt.f))
	}
}

func TestFrequencyFor(t *testing.T) {
	tests := []struct {
		step time.Duration
		want Frequency
	}{
		{time.Hour, Hourly},
		{24 * time.Hour, Daily},
		{15 * time.Minute, Frequency("15T")},
		{3 * time.Hour, Frequency("3H")},
		{45 * time.Second, Frequency("45S")},
	}
	for _, tt := range tests {
		got, err := FrequencyFor(tt.step)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FrequencyFor(0)
	assert.Error(t, err)
	_, err = FrequencyFor(1500 * time.Millisecond)
	assert.Error(t, err)
}

func TestSampleCount(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	n, err := SampleCount(start, start.Add(3*time.Hour), Hourly)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = SampleCount(start, start, Hourly)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = SampleCount(start.Add(time.Hour), start, Hourly)
	assert.Error(t, err)

	_, err = SampleCount(start, start.Add(90*time.Minute), Hourly)
	assert.Error(t, err)
}

func TestDateRange(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	stop := start.Add(45 * time.Minute)

	index, err := DateRange(start, stop, Frequency("15T"))
	require.NoError(t, err)
	require.Len(t, index, 4)
	assert.Equal(t, start, index[0])
	assert.Equal(t, stop, index[3])
}

func TestExpectedSamples(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	r := TimeseriesRecord{
		Start:      start,
		Stop:       start.Add(2 * time.Hour),
		Resolution: Hourly,
	}
	n, err := r.ExpectedSamples()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWideTimeseriesColumn(t *testing.T) {
	w := WideTimeseries{
		Columns: []string{"BE-solar", "BB-wind"},
		Values:  [][]float64{{1, 2}, {3, 4}},
	}
	col, ok := w.Column("BB-wind")
	require.True(t, ok)
	assert.Equal(t, []float64{3, 4}, col)

	_, ok = w.Column("absent")
	assert.False(t, ok)
}
