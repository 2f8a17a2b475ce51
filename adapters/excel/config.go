package excel

// ReaderConfig controls how files become frames
type ReaderConfig struct {
	// Sheet is the worksheet to read; empty means the first sheet
	Sheet string `json:"sheet"`
	// MissingMarkers are cell values treated as missing, compared case-insensitively
	MissingMarkers []string `json:"missing_markers"`
	// TextColumns are always loaded as text even when every cell parses as a number
	TextColumns []string `json:"text_columns"`
}

// DefaultReaderConfig returns sensible defaults for file loading
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MissingMarkers: []string{"NA", "N/A", "NaN", "null", "NULL", "None"},
	}
}
