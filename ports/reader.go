package ports

import (
	"context"

	"gofeat/domain/dataset"
)

// DatasetReader loads the dataset a ranking run works on. Implementations
// return a fully materialized frame; the engine never reads incrementally.
type DatasetReader interface {
	ReadFrame(ctx context.Context) (*dataset.Frame, error)
}

// DatasetReaderFunc adapts a function to DatasetReader
type DatasetReaderFunc func(ctx context.Context) (*dataset.Frame, error)

// ReadFrame calls f
func (f DatasetReaderFunc) ReadFrame(ctx context.Context) (*dataset.Frame, error) {
	return f(ctx)
}

// StaticFrame returns a reader that always yields the given frame
func StaticFrame(frame *dataset.Frame) DatasetReader {
	return DatasetReaderFunc(func(ctx context.Context) (*dataset.Frame, error) {
		return frame, nil
	})
}
