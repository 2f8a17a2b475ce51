package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gofeat/domain/dataset"
	"gofeat/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files into frames
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, cfg ReaderConfig, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &DataReader{filePath: filePath, fileType: fileType, config: cfg, logger: logger.With("DataReader")}
}

// ReadFrame reads the file and types every column
func (r *DataReader) ReadFrame(ctx context.Context) (*dataset.Frame, error) {
	data, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	frame, err := ToFrame(data, r.config)
	if err != nil {
		return nil, fmt.Errorf("failed to build frame from %s: %w", r.filePath, err)
	}
	r.logger.Info("%s loaded as frame (%d columns, %d rows)", r.filePath, frame.ColumnCount(), frame.RowCount())
	return frame, nil
}

// ReadData reads data from Excel or CSV files into raw text rows
func (r *DataReader) ReadData(ctx context.Context) (*ExcelData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into raw text rows
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format. Short rows
// leave their trailing cells empty.
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		h := strings.TrimSpace(header)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column header %q", h)
		}
		seen[h] = true
		headers[i] = h
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// ToFrame types each column: numeric when every non-missing cell parses as
// a float, text otherwise
func ToFrame(data *ExcelData, cfg ReaderConfig) (*dataset.Frame, error) {
	forcedText := make(map[string]bool, len(cfg.TextColumns))
	for _, name := range cfg.TextColumns {
		forcedText[name] = true
	}

	frame := dataset.NewFrame()
	for _, header := range data.Headers {
		cells := data.Column(header)
		if !forcedText[header] {
			if values, ok := parseNumeric(cells, cfg.MissingMarkers); ok {
				if err := frame.AddNumeric(header, values); err != nil {
					return nil, err
				}
				continue
			}
		}
		text := make([]string, len(cells))
		for i, cell := range cells {
			if !isMissingCell(cell, cfg.MissingMarkers) {
				text[i] = cell
			}
		}
		if err := frame.AddText(header, text); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// parseNumeric parses every cell, mapping missing cells to NaN. It fails when
// any present cell is not a number or when no cell is present at all.
func parseNumeric(cells []string, markers []string) ([]float64, bool) {
	values := make([]float64, len(cells))
	present := 0
	for i, cell := range cells {
		if isMissingCell(cell, markers) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, false
		}
		values[i] = v
		present++
	}
	return values, present > 0
}
