package metadata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b3data/internal/schema"
)

func TestForKind_Scalar(t *testing.T) {
	doc, err := ForKind("oed_scalars", schema.KindScalar)
	require.NoError(t, err)

	assert.Equal(t, "oed_scalars", doc.Name)
	require.Len(t, doc.Resources, 1)
	res := doc.Resources[0]
	assert.Equal(t, "oed_scalars.csv", res.Path)
	assert.Equal(t, []string{schema.ColIDScal}, res.Schema.PrimaryKey)

	types := make(map[string]string)
	for _, f := range res.Schema.Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, "bigint", types[schema.ColIDScal])
	assert.Equal(t, "float", types[schema.ColVarValue])
	assert.Equal(t, "text", types[schema.ColScenario])
	assert.Len(t, res.Schema.Fields, 12)
}

func TestForKind_Timeseries(t *testing.T) {
	doc, err := ForKind("oed_timeseries", schema.KindTimeseries)
	require.NoError(t, err)

	types := make(map[string]string)
	for _, f := range doc.Resources[0].Schema.Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, "timestamp", types[schema.ColStart])
	assert.Equal(t, "timestamp", types[schema.ColStop])
	assert.Equal(t, "interval", types[schema.ColResolution])
	assert.Equal(t, "float array", types[schema.ColSeries])
}

func TestForKind_UnknownKind(t *testing.T) {
	_, err := ForKind("t", schema.Kind("matrix"))
	assert.Error(t, err)
}

func TestValidate_RejectsIncompleteDocument(t *testing.T) {
	doc := &Document{Name: "t"}
	assert.Error(t, doc.Validate())
}

func TestWriteAndReadJSON(t *testing.T) {
	doc, err := ForKind("oed_scalars", schema.KindScalar)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "meta", "oed_scalars.json")
	require.NoError(t, doc.WriteJSON(path))

	loaded, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}
