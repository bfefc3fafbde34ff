package domain

import (
	"time"
)

// ScalarRecord is one row of the canonical scalar table: a single named
// numeric parameter tied to a scenario/region/technology combination.
type ScalarRecord struct {
	ID        int64   `json:"id_scal"`
	Scenario  string  `json:"scenario"`
	Name      string  `json:"name"`
	VarName   string  `json:"var_name" validate:"required"`
	Carrier   string  `json:"carrier"`
	Region    string  `json:"region"`
	Tech      string  `json:"tech"`
	Type      string  `json:"type"`
	VarValue  float64 `json:"var_value"`
	VarUnit   string  `json:"var_unit,omitempty"`
	Reference string  `json:"reference,omitempty"`
	Comment   string  `json:"comment,omitempty"`
}

// TimeseriesRecord is one row of the stacked representation: a full value
// sequence plus the descriptors of the shared time axis it was sampled on.
type TimeseriesRecord struct {
	ID         int64     `json:"id_ts"`
	Region     string    `json:"region"`
	VarName    string    `json:"var_name" validate:"required"`
	Start      time.Time `json:"timeindex_start"`
	Stop       time.Time `json:"timeindex_stop"`
	Resolution Frequency `json:"timeindex_resolution"`
	Series     []float64 `json:"series"`
	VarUnit    string    `json:"var_unit,omitempty"`
	Source     string    `json:"source,omitempty"`
	Comment    string    `json:"comment,omitempty"`
}

// ExpectedSamples returns the number of samples the record's series must
// hold given its start, stop and resolution.
func (r TimeseriesRecord) ExpectedSamples() (int, error) {
	return SampleCount(r.Start, r.Stop, r.Resolution)
}

// WideTimeseries is the transient wide form of a batch of time series:
// one column per named series, rows indexed by timestamp on a single
// uniform, gap-free grid. Values is column-major; Values[i] belongs to
// Columns[i] and is aligned with Index.
type WideTimeseries struct {
	IndexName string
	Index     []time.Time
	Columns   []string
	Values    [][]float64
	Freq      Frequency
}

// Column returns the values of the named series and whether it exists.
func (w WideTimeseries) Column(name string) ([]float64, bool) {
	for i, c := range w.Columns {
		if c == name {
			return w.Values[i], true
		}
	}
	return nil, false
}

// NumRows returns the number of samples on the time axis.
func (w WideTimeseries) NumRows() int {
	return len(w.Index)
}
