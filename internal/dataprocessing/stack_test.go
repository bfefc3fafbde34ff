package dataprocessing

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	b3errors "b3data/internal/errors"
	"b3data/internal/shared/testutil"
	"b3data/pkg/contracts/domain"
)

func sampleWide(t0 time.Time) domain.WideTimeseries {
	return domain.WideTimeseries{
		IndexName: "timeindex",
		Index:     hourlyIndex(t0, 4, time.Hour),
		Columns:   []string{"BE_wind", "BB_solar"},
		Values: [][]float64{
			{1, 2, 3, 4},
			{0.5, 0.25, 0, 0.125},
		},
	}
}

func TestStack(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	records, err := Stack(sampleWide(t0))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "BE_wind", first.VarName)
	assert.Equal(t, t0, first.Start)
	assert.Equal(t, t0.Add(3*time.Hour), first.Stop)
	assert.Equal(t, domain.Frequency("H"), first.Resolution)
	assert.Equal(t, []float64{1, 2, 3, 4}, first.Series)

	assert.Equal(t, "BB_solar", records[1].VarName)
	assert.Equal(t, []float64{0.5, 0.25, 0, 0.125}, records[1].Series)
}

func TestStack_AdoptsInferredFrequencyWithNotice(t *testing.T) {
	h := testutil.InstallDefault(t)

	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	records, err := Stack(sampleWide(t0))
	require.NoError(t, err)

	assert.Equal(t, domain.Frequency("H"), records[0].Resolution)
	assert.True(t, h.HasMessage(slog.LevelInfo, "frequency of the data is not specified"))
}

func TestStack_KeepsTaggedFrequency(t *testing.T) {
	h := testutil.InstallDefault(t)

	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	w := sampleWide(t0)
	w.Freq = "H"

	records, err := Stack(w)
	require.NoError(t, err)
	assert.Equal(t, domain.Frequency("H"), records[0].Resolution)
	assert.False(t, h.HasMessage(slog.LevelInfo, "frequency of the data is not specified"))
}

func TestStack_AcceptsEquivalentTaggedAlias(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	w := sampleWide(t0)
	w.Freq = "60T"

	records, err := Stack(w)
	require.NoError(t, err)
	assert.Equal(t, domain.Frequency("60T"), records[0].Resolution)
}

func TestStack_RejectsWrongTaggedFrequency(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	w := sampleWide(t0)
	w.Freq = "D"

	_, err := Stack(w)
	require.Error(t, err)

	var formatErr *b3errors.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "does not match")
}

func TestStack_NoInferableFrequency(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	w := domain.WideTimeseries{
		Index:   []time.Time{t0, t0.Add(time.Hour), t0.Add(3 * time.Hour)},
		Columns: []string{"BE_wind"},
		Values:  [][]float64{{1, 2, 3}},
	}

	_, err := Stack(w)
	require.Error(t, err)

	var formatErr *b3errors.FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestStack_EmptyIndex(t *testing.T) {
	_, err := Stack(domain.WideTimeseries{Columns: []string{"a"}, Values: [][]float64{{}}})
	require.Error(t, err)

	var formatErr *b3errors.FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestUnstack_RoundTrip(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	wide := sampleWide(t0)

	records, err := Stack(wide)
	require.NoError(t, err)

	got, err := Unstack(records)
	require.NoError(t, err)

	assert.Equal(t, wide.Index, got.Index)
	assert.Equal(t, wide.Columns, got.Columns)
	assert.Equal(t, wide.Values, got.Values)
	assert.Equal(t, domain.Frequency("H"), got.Freq)
	assert.Equal(t, "timeindex", got.IndexName)
}

func TestUnstack_ResolutionMismatch(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.TimeseriesRecord{
		{VarName: "a", Start: t0, Stop: t0.Add(time.Hour), Resolution: "H", Series: []float64{1, 2}},
		{VarName: "b", Start: t0, Stop: t0.Add(time.Hour), Resolution: "D", Series: []float64{1, 2}},
	}

	_, err := Unstack(records)
	require.Error(t, err)

	var formatErr *b3errors.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "doesn't match for all entries")
}

func TestUnstack_MissingResolution(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.TimeseriesRecord{
		{VarName: "a", Start: t0, Stop: t0.Add(time.Hour), Series: []float64{1, 2}},
		{VarName: "b", Start: t0, Stop: t0.Add(time.Hour), Series: []float64{1, 2}},
	}

	_, err := Unstack(records)
	require.Error(t, err)

	var formatErr *b3errors.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "missing a frequency")
}

func TestUnstack_StartMismatch(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.TimeseriesRecord{
		{VarName: "a", Start: t0, Stop: t0.Add(time.Hour), Resolution: "H", Series: []float64{1, 2}},
		{VarName: "b", Start: t0.Add(time.Hour), Stop: t0.Add(time.Hour), Resolution: "H", Series: []float64{1, 2}},
	}

	_, err := Unstack(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start date")
}

func TestUnstack_DropsRemarkColumnsWithNotice(t *testing.T) {
	h := testutil.InstallDefault(t)

	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.TimeseriesRecord{
		{
			VarName: "a", Start: t0, Stop: t0.Add(time.Hour), Resolution: "H",
			Series: []float64{1, 2}, Source: "atlite", Comment: "preliminary",
		},
	}

	got, err := Unstack(records)
	require.NoError(t, err)
	assert.Len(t, got.Columns, 1)

	// one notice per dropped column
	assert.Equal(t, 2, h.CountMessages(slog.LevelWarn, "lost after unstacking"))
	dropped := map[any]bool{}
	for _, r := range h.Records() {
		if r.Level == slog.LevelWarn {
			dropped[r.Attrs["column"]] = true
		}
	}
	assert.True(t, dropped["source"])
	assert.True(t, dropped["comment"])
}

func TestUnstack_SeriesLengthMismatch(t *testing.T) {
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.TimeseriesRecord{
		{VarName: "a", Start: t0, Stop: t0.Add(2 * time.Hour), Resolution: "H", Series: []float64{1, 2}},
	}

	_, err := Unstack(records)
	require.Error(t, err)

	var formatErr *b3errors.FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestUnstack_EmptyBatch(t *testing.T) {
	_, err := Unstack(nil)
	require.Error(t, err)
}
