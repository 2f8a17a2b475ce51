package container

import (
	"bytes"
	"context"
	"testing"

	"gofeat/internal"
	"gofeat/internal/config"
	apperrors "gofeat/internal/errors"
	"gofeat/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Engine: config.DefaultEngineConfig(),
		Report: config.ReportConfig{Dir: dir},
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestContainerWithoutDatabase(t *testing.T) {
	c, err := New(testConfig(t.TempDir()), internal.NopLogger())
	require.NoError(t, err)

	require.NoError(t, c.Connect(context.Background()))
	assert.Nil(t, c.DB)
	assert.Nil(t, c.ReportRepo)

	var buf bytes.Buffer
	writers := c.Writers(report.NewTextWriter(&buf, 0))
	assert.Len(t, writers, 2)
	assert.IsType(t, &report.FileWriter{}, writers[0])

	_, err = c.SQLReader("SELECT 1")
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))

	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestWritersSkipFileOutputWithoutDir(t *testing.T) {
	c, err := New(testConfig(""), nil)
	require.NoError(t, err)
	assert.Empty(t, c.Writers())
	assert.NotNil(t, c.RankingService())
}
