package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() Table {
	return Table{
		Name:    "sample",
		Columns: []string{"region", "tech", "var_value"},
		Rows: [][]string{
			{"BE", "wind", "10"},
			{"BB", "wind", "20"},
			{"BB", "solar", "5"},
		},
	}
}

func TestFilter_SingleValue(t *testing.T) {
	got, err := sample().Filter("region", "BB")
	require.NoError(t, err)

	assert.Equal(t, 2, got.NumRows())
	col, err := got.Column("tech")
	require.NoError(t, err)
	assert.Equal(t, []string{"wind", "solar"}, col)
}

func TestFilter_Membership(t *testing.T) {
	got, err := sample().Filter("tech", "wind", "solar")
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumRows())
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := sample()
	got, err := in.Filter("region", "BE")
	require.NoError(t, err)

	got.Rows[0][0] = "changed"
	assert.Equal(t, "BE", in.Rows[0][0])
	assert.Equal(t, 3, in.NumRows())
}

func TestFilter_UnknownColumn(t *testing.T) {
	_, err := sample().Filter("carrier", "wind")
	assert.Error(t, err)
}

func TestReorder(t *testing.T) {
	got, err := sample().Reorder([]string{"var_value", "region", "tech"})
	require.NoError(t, err)

	assert.Equal(t, []string{"var_value", "region", "tech"}, got.Columns)
	assert.Equal(t, []string{"10", "BE", "wind"}, got.Rows[0])
}

func TestWithColumn_Broadcast(t *testing.T) {
	got, err := sample().WithColumn("comment", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "tech", "var_value", "comment"}, got.Columns)
	for _, row := range got.Rows {
		assert.Equal(t, "", row[3])
	}
}

func TestWithColumn_PerRow(t *testing.T) {
	got, err := sample().WithColumn("id", "0", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "2", got.Rows[2][3])

	_, err = sample().WithColumn("id", "0", "1")
	assert.Error(t, err)
}

func TestRenamed(t *testing.T) {
	got, err := sample().Renamed(0, "timeindex")
	require.NoError(t, err)
	assert.Equal(t, "timeindex", got.Columns[0])
	assert.Equal(t, "region", sample().Columns[0])
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.csv")

	require.NoError(t, sample().WriteCSV(path))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", got.Name)
	assert.Equal(t, sample().Columns, got.Columns)
	assert.Equal(t, sample().Rows, got.Rows)
}

func TestWriteCSV_ReportsFailedWrite(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}

	err := sample().WriteCSV("/dev/full")
	require.Error(t, err)
}

func TestReadCSVProbe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.csv")
	require.NoError(t, sample().WriteCSV(path))

	got, err := ReadCSVProbe(path, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumRows())
}

func TestReadCSVOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "offset.csv")
	content := "junk1,junk1\njunk2,junk2\na,b\n1,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := ReadCSVOffset(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Columns)
	assert.Equal(t, [][]string{{"1", "2"}}, got.Rows)
}

func TestReadCSV_PadsShortRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.csv")
	content := "a,b,c\n1,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2", ""}}, got.Rows)
}

func TestReadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"region", "var_value"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"BE", 10}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"BB", 20}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "var_value"}, got.Columns)
	require.Equal(t, 2, got.NumRows())
	assert.Equal(t, "BE", got.Rows[0][0])
}
