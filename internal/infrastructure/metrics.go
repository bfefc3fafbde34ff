package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters. Registered on the default registry so every entry
// point shares one view of the run.
var (
	// TablesLoaded counts successfully validated input tables per kind.
	TablesLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "b3_tables_loaded_total",
		Help: "Number of input tables validated and loaded, by record kind.",
	}, []string{"kind"})

	// ValidationFailures counts inputs rejected by schema or format checks.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "b3_validation_failures_total",
		Help: "Number of input tables rejected by validation, by record kind.",
	}, []string{"kind"})

	// RowsUploaded counts rows accepted by the remote platform.
	RowsUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "b3_rows_uploaded_total",
		Help: "Number of rows successfully inserted into remote tables.",
	})

	// UploadFailures counts per-table upload failures that were skipped.
	UploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "b3_upload_failures_total",
		Help: "Number of tables whose upload failed and was skipped.",
	})
)
