package excel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gofeat/domain/dataset"
	"gofeat/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFrameCSV(t *testing.T) {
	path := writeFile(t, "games.csv", "team, runs ,won,note\nSF,3,yes,\nLA,NA,no,rain\nSF,7.5,yes,\nNY,2,no\n")

	frame, err := NewDataReader(path, DefaultReaderConfig(), internal.NopLogger()).ReadFrame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"team", "runs", "won", "note"}, frame.ColumnNames())
	assert.Equal(t, 4, frame.RowCount())

	runs, ok := frame.Column("runs")
	require.True(t, ok)
	assert.Equal(t, dataset.ColumnNumeric, runs.Type)
	assert.Equal(t, 3.0, runs.Numeric[0])
	assert.True(t, math.IsNaN(runs.Numeric[1]))
	assert.Equal(t, 7.5, runs.Numeric[2])

	team, _ := frame.Column("team")
	assert.Equal(t, dataset.ColumnText, team.Type)

	note, _ := frame.Column("note")
	assert.Equal(t, []string{"", "rain", "", ""}, note.Text)
}

func TestReadFrameForcedText(t *testing.T) {
	path := writeFile(t, "codes.csv", "zip,y\n94110,1\n10001,0\n")
	cfg := DefaultReaderConfig()
	cfg.TextColumns = []string{"zip"}

	frame, err := NewDataReader(path, cfg, nil).ReadFrame(context.Background())
	require.NoError(t, err)

	zip, _ := frame.Column("zip")
	assert.Equal(t, dataset.ColumnText, zip.Type)
	assert.Equal(t, []string{"94110", "10001"}, zip.Text)
}

func TestReadFrameXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"team", "runs", "won"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"SF", 3, 1}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"LA", 4.5, 0}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	frame, err := NewDataReader(path, DefaultReaderConfig(), nil).ReadFrame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, frame.RowCount())
	runs, _ := frame.Column("runs")
	assert.Equal(t, []float64{3, 4.5}, runs.Numeric)
	team, _ := frame.Column("team")
	assert.Equal(t, []string{"SF", "LA"}, team.Text)
}

func TestReadFrameErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"), DefaultReaderConfig(), nil).ReadFrame(ctx)
	assert.ErrorContains(t, err, "not found")

	headerOnly := writeFile(t, "empty.csv", "a,b\n")
	_, err = NewDataReader(headerOnly, DefaultReaderConfig(), nil).ReadFrame(ctx)
	assert.Error(t, err)

	dup := writeFile(t, "dup.csv", "a,a\n1,2\n")
	_, err = NewDataReader(dup, DefaultReaderConfig(), nil).ReadFrame(ctx)
	assert.ErrorContains(t, err, "duplicate")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewDataReader(dup, DefaultReaderConfig(), nil).ReadFrame(canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseNumericAllMissingIsText(t *testing.T) {
	_, ok := parseNumeric([]string{"", "NA"}, DefaultReaderConfig().MissingMarkers)
	assert.False(t, ok)
}
