// Package oep talks to the OpenEnergyPlatform REST API. It creates tables
// from oemetadata documents, inserts prepared rows in batches and attaches
// the metadata to the uploaded tables. All requests go through a shared
// rate limiter so bulk uploads stay within the platform's limits.
package oep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"b3data/internal/config"
	"b3data/internal/metadata"
	"b3data/internal/table"
)

// Client is an OpenEnergyPlatform API client bound to one database schema.
type Client struct {
	baseURL    string
	schema     string
	token      string
	batchSize  int
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// NewClient creates a client from the upload configuration.
func NewClient(cfg config.UploadConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		schema:     cfg.Schema,
		token:      cfg.Token,
		batchSize:  batchSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		log:        logger,
	}
}

// sqlTypes maps oemetadata field types to the SQL types the platform
// expects in table definitions.
var sqlTypes = map[string]string{
	"bigint":      "bigint",
	"float":       "float",
	"float array": "float[]",
	"timestamp":   "timestamp",
	"interval":    "interval",
	"text":        "text",
}

type columnDef struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	IsPK     bool   `json:"is_primary_key,omitempty"`
}

// CreateTable creates the table described by the metadata document. An
// already existing table is not an error.
func (c *Client) CreateTable(ctx context.Context, doc *metadata.Document) error {
	res := doc.Resources[0]

	columns := make([]columnDef, 0, len(res.Schema.Fields))
	for _, f := range res.Schema.Fields {
		sqlType, ok := sqlTypes[f.Type]
		if !ok {
			sqlType = "text"
		}
		columns = append(columns, columnDef{
			Name:     f.Name,
			DataType: sqlType,
			IsPK:     len(res.Schema.PrimaryKey) == 1 && res.Schema.PrimaryKey[0] == f.Name,
		})
	}

	payload := map[string]any{
		"query": map[string]any{"columns": columns},
	}

	err := c.do(ctx, http.MethodPut, c.tablePath(doc.Name), payload, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			c.log.Info("table already exists on the platform",
				slog.String("table", doc.Name))
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", doc.Name, err)
	}

	c.log.Info("table created on the platform",
		slog.String("table", doc.Name),
		slog.String("schema", c.schema))
	return nil
}

// InsertRows uploads the rows of a prepared table in batches. Cell values
// are typed according to the metadata document so numeric columns arrive as
// numbers and empty cells as nulls.
func (c *Client) InsertRows(ctx context.Context, doc *metadata.Document, t table.Table) error {
	fieldTypes := make(map[string]string, len(doc.Resources[0].Schema.Fields))
	for _, f := range doc.Resources[0].Schema.Fields {
		fieldTypes[f.Name] = f.Type
	}

	path := c.tablePath(doc.Name) + "rows/new"

	for start := 0; start < t.NumRows(); start += c.batchSize {
		stop := start + c.batchSize
		if stop > t.NumRows() {
			stop = t.NumRows()
		}

		batch := make([]map[string]any, 0, stop-start)
		for i := start; i < stop; i++ {
			row := make(map[string]any, len(t.Columns))
			for j, col := range t.Columns {
				value, err := typedCell(t.Rows[i][j], fieldTypes[col])
				if err != nil {
					return fmt.Errorf("row %d of %s: %w", i, doc.Name, err)
				}
				row[col] = value
			}
			batch = append(batch, row)
		}

		payload := map[string]any{"query": batch}
		if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
			return fmt.Errorf("failed to insert rows into %s: %w", doc.Name, err)
		}

		c.log.Debug("batch inserted",
			slog.String("table", doc.Name),
			slog.Int("rows", stop-start))
	}

	c.log.Info("rows inserted",
		slog.String("table", doc.Name),
		slog.Int("rows", t.NumRows()))
	return nil
}

// AttachMetadata uploads the metadata document to its table.
func (c *Client) AttachMetadata(ctx context.Context, doc *metadata.Document) error {
	if err := c.do(ctx, http.MethodPost, c.tablePath(doc.Name)+"meta/", doc, nil); err != nil {
		return fmt.Errorf("failed to attach metadata to %s: %w", doc.Name, err)
	}
	c.log.Info("metadata attached", slog.String("table", doc.Name))
	return nil
}

// DeleteTable removes a table from the platform.
func (c *Client) DeleteTable(ctx context.Context, tableName string) error {
	if err := c.do(ctx, http.MethodDelete, c.tablePath(tableName), nil, nil); err != nil {
		return fmt.Errorf("failed to delete table %s: %w", tableName, err)
	}
	c.log.Info("table deleted", slog.String("table", tableName))
	return nil
}

func (c *Client) tablePath(tableName string) string {
	return fmt.Sprintf("/api/v0/schema/%s/tables/%s/", c.schema, tableName)
}

// APIError carries the status code and response body of a failed request.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform returned status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// typedCell converts a cell to the JSON value matching its column type.
// Empty cells become nulls.
func typedCell(cell, fieldType string) (any, error) {
	if cell == "" {
		return nil, nil
	}

	switch fieldType {
	case "bigint":
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", cell, err)
		}
		return v, nil
	case "float":
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", cell, err)
		}
		if math.IsNaN(v) {
			return nil, nil
		}
		return v, nil
	default:
		return cell, nil
	}
}
