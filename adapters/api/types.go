package api

import (
	"math"

	"gofeat/domain/dataset"
	"gofeat/domain/stats"
	apperrors "gofeat/internal/errors"
)

// ColumnPayload is one column of an inline dataset. Exactly one of Numeric
// and Text is set; null entries are missing values.
type ColumnPayload struct {
	Name    string     `json:"name"`
	Numeric []*float64 `json:"numeric,omitempty"`
	Text    []*string  `json:"text,omitempty"`
}

// RankingRequest is the body of POST /v1/rankings
type RankingRequest struct {
	Response   string          `json:"response"`
	Predictors []string        `json:"predictors,omitempty"`
	PairMode   string          `json:"pair_mode,omitempty"`
	Columns    []ColumnPayload `json:"columns"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Frame builds the dataset carried by the request
func (r *RankingRequest) Frame() (*dataset.Frame, error) {
	if len(r.Columns) == 0 {
		return nil, apperrors.InvalidInput("request has no columns")
	}
	frame := dataset.NewFrame()
	for _, col := range r.Columns {
		var err error
		switch {
		case col.Numeric != nil && col.Text != nil:
			return nil, apperrors.InvalidInput("column " + col.Name + " sets both numeric and text")
		case col.Numeric != nil:
			values := make([]float64, len(col.Numeric))
			for i, v := range col.Numeric {
				if v == nil {
					values[i] = math.NaN()
				} else {
					values[i] = *v
				}
			}
			err = frame.AddNumeric(col.Name, values)
		default:
			values := make([]string, len(col.Text))
			for i, v := range col.Text {
				if v != nil {
					values[i] = *v
				}
			}
			err = frame.AddText(col.Name, values)
		}
		if err != nil {
			return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
		}
	}
	return frame, nil
}

// Mode parses the requested pair mode; "" leaves the engine default
func (r *RankingRequest) Mode() (stats.PairMode, error) {
	if r.PairMode == "" {
		return "", nil
	}
	mode, err := stats.ParsePairMode(r.PairMode)
	if err != nil {
		return "", apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	return mode, nil
}
