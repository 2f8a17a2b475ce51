package app

import (
	"context"
	"errors"
	"testing"

	"gofeat/adapters/stats/engine"
	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"
	"gofeat/internal"
	"gofeat/internal/config"
	apperrors "gofeat/internal/errors"
	"gofeat/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDatasetReader struct {
	mock.Mock
}

func (m *MockDatasetReader) ReadFrame(ctx context.Context) (*dataset.Frame, error) {
	args := m.Called(ctx)
	frame, _ := args.Get(0).(*dataset.Frame)
	return frame, args.Error(1)
}

type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) WriteReport(ctx context.Context, report *stats.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func gamesFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	frame := dataset.NewFrame()
	require.NoError(t, frame.AddText("team", []string{"SF", "SF", "LA", "LA", "SF", "LA", "SF", "LA"}))
	require.NoError(t, frame.AddNumeric("runs", []float64{3, 5, 1, 2, 6, 1, 4, 2}))
	require.NoError(t, frame.AddNumeric("won", []float64{1, 1, 0, 0, 1, 0, 1, 1}))
	return frame
}

func newService(writers ...ports.ReportWriter) *RankingService {
	cfg := config.DefaultEngineConfig()
	cfg.Workers = 2
	return NewRankingService(engine.NewStatsEngine(cfg, internal.NopLogger()), internal.NopLogger(), writers...)
}

func TestRankingServiceRunWritesReport(t *testing.T) {
	ctx := context.Background()
	reader := new(MockDatasetReader)
	reader.On("ReadFrame", ctx).Return(gamesFrame(t), nil)
	writer := new(MockReportWriter)
	writer.On("WriteReport", ctx, mock.AnythingOfType("*stats.Report")).Return(nil)

	report, err := newService(writer).Run(ctx, RankingRequest{Reader: reader, Response: "won"})
	require.NoError(t, err)

	assert.Equal(t, core.VariableKey("won"), report.Response)
	assert.Len(t, report.MeanDifference, 2)
	assert.Len(t, report.BruteForce, 1)
	reader.AssertExpectations(t)
	writer.AssertExpectations(t)
}

func TestRankingServiceWriterFailureKeepsReport(t *testing.T) {
	ctx := context.Background()
	reader := new(MockDatasetReader)
	reader.On("ReadFrame", ctx).Return(gamesFrame(t), nil)
	failing := new(MockReportWriter)
	failing.On("WriteReport", ctx, mock.Anything).Return(errors.New("disk full"))
	second := new(MockReportWriter)
	second.On("WriteReport", ctx, mock.Anything).Return(nil)

	report, err := newService(failing, second).Run(ctx, RankingRequest{Reader: reader, Response: "won"})
	require.Error(t, err)
	assert.NotNil(t, report)
	assert.Contains(t, err.Error(), "disk full")
	second.AssertExpectations(t)
}

func TestRankingServiceErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newService().Run(ctx, RankingRequest{Response: "won"})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	reader := new(MockDatasetReader)
	reader.On("ReadFrame", ctx).Return(nil, errors.New("connection refused"))
	_, err = newService().Run(ctx, RankingRequest{Reader: reader, Response: "won"})
	assert.ErrorContains(t, err, "connection refused")

	writer := new(MockReportWriter)
	good := new(MockDatasetReader)
	good.On("ReadFrame", ctx).Return(gamesFrame(t), nil)
	_, err = newService(writer).Run(ctx, RankingRequest{Reader: good, Response: "missing"})
	assert.ErrorIs(t, err, core.ErrInvalidColumn)
	writer.AssertNotCalled(t, "WriteReport", mock.Anything, mock.Anything)
}
