package oep

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b3data/internal/config"
	"b3data/internal/metadata"
	"b3data/internal/schema"
	"b3data/internal/table"
)

func testConfig(baseURL string) config.UploadConfig {
	return config.UploadConfig{
		BaseURL:     baseURL,
		Schema:      "model_draft",
		Token:       "secret",
		RPS:         1000,
		Burst:       1000,
		Timeout:     5 * time.Second,
		Concurrency: 2,
		BatchSize:   2,
	}
}

func scalarDoc(t *testing.T) *metadata.Document {
	t.Helper()
	doc, err := metadata.ForKind("oed_scalars", schema.KindScalar)
	require.NoError(t, err)
	return doc
}

func TestCreateTable_SendsColumnsAndAuth(t *testing.T) {
	var gotAuth, gotRequestID string
	var payload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v0/schema/model_draft/tables/oed_scalars/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	require.NoError(t, c.CreateTable(context.Background(), scalarDoc(t)))

	assert.Equal(t, "Token secret", gotAuth)
	assert.NotEmpty(t, gotRequestID)

	query := payload["query"].(map[string]any)
	columns := query["columns"].([]any)
	assert.Len(t, columns, 12)
	first := columns[0].(map[string]any)
	assert.Equal(t, "id_scal", first["name"])
	assert.Equal(t, "bigint", first["data_type"])
	assert.Equal(t, true, first["is_primary_key"])
}

func TestCreateTable_ExistingTableIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "table exists", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	assert.NoError(t, c.CreateTable(context.Background(), scalarDoc(t)))
}

func TestCreateTable_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	err := c.CreateTable(context.Background(), scalarDoc(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestInsertRows_BatchesAndTypesCells(t *testing.T) {
	var batches [][]map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/schema/model_draft/tables/oed_scalars/rows/new", r.URL.Path)
		var payload struct {
			Query []map[string]any `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		batches = append(batches, payload.Query)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tbl := table.Table{
		Name:    "oed_scalars",
		Columns: []string{"id_scal", "var_name", "var_value"},
		Rows: [][]string{
			{"0", "capacity", "42.5"},
			{"1", "capacity", ""},
			{"2", "capacity", "7"},
		},
	}

	doc := scalarDoc(t)
	c := NewClient(testConfig(srv.URL), nil)
	require.NoError(t, c.InsertRows(context.Background(), doc, tbl))

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)

	first := batches[0][0]
	assert.Equal(t, float64(0), first["id_scal"])
	assert.Equal(t, "capacity", first["var_name"])
	assert.Equal(t, 42.5, first["var_value"])
	assert.Nil(t, batches[0][1]["var_value"])
}

func TestAttachMetadata(t *testing.T) {
	var got metadata.Document

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v0/schema/model_draft/tables/oed_scalars/meta/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	require.NoError(t, c.AttachMetadata(context.Background(), scalarDoc(t)))
	assert.Equal(t, "oed_scalars", got.Name)
}

func TestDeleteTable(t *testing.T) {
	var gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	require.NoError(t, c.DeleteTable(context.Background(), "oed_scalars"))
	assert.Equal(t, http.MethodDelete, gotMethod)
}
