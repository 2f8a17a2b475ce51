package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"gofeat/domain/dataset"
)

// GamesGeneratorConfig configures the synthetic game log generator
type GamesGeneratorConfig struct {
	Rows          int     `json:"rows"`
	NoiseColumns  int     `json:"noise_columns"`
	MissingRate   float64 `json:"missing_rate"`
	ResponseNoise float64 `json:"response_noise"`
	Seed          int64   `json:"seed"`
}

// DefaultGamesConfig returns sensible defaults for game log generation
func DefaultGamesConfig() GamesGeneratorConfig {
	return GamesGeneratorConfig{
		Rows:          500,
		NoiseColumns:  3,
		MissingRate:   0.02,
		ResponseNoise: 0.5,
		Seed:          42,
	}
}

// Column names produced by the generator. Response is "won".
const (
	ColumnWon        = "won"
	ColumnRuns       = "runs_scored"
	ColumnTeam       = "team"
	ColumnWeather    = "weather"
	ColumnPitchSpeed = "pitch_speed"
	ColumnSpinRate   = "spin_rate"
)

var (
	teams        = []string{"SF", "LA", "NY", "CHI", "BOS"}
	teamStrength = map[string]float64{"SF": 0.8, "LA": 0.4, "NY": 0, "CHI": -0.4, "BOS": -0.8}
	weathers     = []string{"clear", "cloudy", "rain"}
)

// GamesDataGenerator produces a game log with known structure:
// runs_scored and team drive the response on their own, pitch_speed and
// spin_rate only matter together, weather and noise_N are unrelated.
type GamesDataGenerator struct {
	config GamesGeneratorConfig
	rng    *rand.Rand
}

// NewGamesDataGenerator creates a new generator
func NewGamesDataGenerator(config GamesGeneratorConfig) *GamesDataGenerator {
	return &GamesDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the frame. The same seed always yields the same frame.
func (g *GamesDataGenerator) Generate() (*dataset.Frame, error) {
	n := g.config.Rows
	if n <= 0 {
		return nil, fmt.Errorf("row count must be positive, got %d", n)
	}
	g.rng = rand.New(rand.NewSource(g.config.Seed))

	runs := make([]float64, n)
	team := make([]string, n)
	weather := make([]string, n)
	speed := make([]float64, n)
	spin := make([]float64, n)
	won := make([]float64, n)
	noise := make([][]float64, g.config.NoiseColumns)
	for j := range noise {
		noise[j] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		runs[i] = float64(g.rng.Intn(12))
		team[i] = teams[g.rng.Intn(len(teams))]
		weather[i] = weathers[g.rng.Intn(len(weathers))]
		speed[i] = 85 + g.rng.Float64()*15
		spin[i] = 2000 + g.rng.Float64()*800
		for j := range noise {
			noise[j][i] = g.rng.NormFloat64()
		}

		// sign of the centered product carries the pair effect
		interaction := 1.0
		if (speed[i]-92.5)*(spin[i]-2400) < 0 {
			interaction = -1.0
		}
		latent := 0.35*(runs[i]-5.5) + teamStrength[team[i]] + 0.9*interaction + g.config.ResponseNoise*g.rng.NormFloat64()
		if latent > 0 {
			won[i] = 1
		}
	}

	g.punchHoles(runs)
	g.punchHoles(speed)
	g.punchHoles(won)
	g.punchTextHoles(weather)

	frame := dataset.NewFrame()
	steps := []error{
		frame.AddNumeric(ColumnWon, won),
		frame.AddNumeric(ColumnRuns, runs),
		frame.AddText(ColumnTeam, team),
		frame.AddText(ColumnWeather, weather),
		frame.AddNumeric(ColumnPitchSpeed, speed),
		frame.AddNumeric(ColumnSpinRate, spin),
	}
	for j := range noise {
		steps = append(steps, frame.AddNumeric(fmt.Sprintf("noise_%d", j+1), noise[j]))
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return frame, nil
}

func (g *GamesDataGenerator) punchHoles(values []float64) {
	for i := range values {
		if g.rng.Float64() < g.config.MissingRate {
			values[i] = math.NaN()
		}
	}
}

func (g *GamesDataGenerator) punchTextHoles(values []string) {
	for i := range values {
		if g.rng.Float64() < g.config.MissingRate {
			values[i] = ""
		}
	}
}

// WriteCSV writes a frame as CSV with a header row. Missing values are
// written as NA.
func WriteCSV(w io.Writer, frame *dataset.Frame) error {
	out := csv.NewWriter(w)
	names := frame.ColumnNames()
	if err := out.Write(names); err != nil {
		return err
	}

	columns := make([]*dataset.Column, len(names))
	for j, name := range names {
		columns[j], _ = frame.Column(name)
	}
	record := make([]string, len(names))
	for i := 0; i < frame.RowCount(); i++ {
		for j, col := range columns {
			switch {
			case col.IsMissing(i):
				record[j] = "NA"
			case col.IsNumeric():
				record[j] = strconv.FormatFloat(col.Numeric[i], 'g', -1, 64)
			default:
				record[j] = col.Text[i]
			}
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
