package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/railfleet/locopredict/core/features"
	"github.com/railfleet/locopredict/core/model"
)

// Artifact file names expected inside a bundle directory.
const (
	ScalerFile             = "scaler.json"
	RiskModelFile          = "risk_model.json"
	ReliabilityModelFile   = "reliability_model.json"
	FleetEncoderFile       = "fleet_encoder.json"
	ReliabilityEncoderFile = "reliability_encoder.json"
	AgeEncoderFile         = "age_encoder.json"
	FeatureColumnsFile     = "feature_columns.json"
)

// Scaler standardizes a feature vector with fitted means and scales.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform returns (x - mean) / scale element-wise.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// LinearModel is a fitted linear regressor.
type LinearModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Predict returns coefficients . x + intercept.
func (m *LinearModel) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coefficients) {
		return 0, fmt.Errorf("linear model expects %d features, got %d", len(m.Coefficients), len(x))
	}
	xv := mat.NewVecDense(len(x), x)
	cv := mat.NewVecDense(len(m.Coefficients), m.Coefficients)
	return mat.Dot(cv, xv) + m.Intercept, nil
}

// LinearClassifier is a fitted one-vs-rest linear classifier. Each row of
// Coefficients scores one class; Classes maps rows to encoder codes.
type LinearClassifier struct {
	Classes      []int       `json:"classes"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

// Predict returns the encoder code of the highest-scoring class.
func (c *LinearClassifier) Predict(x []float64) (int, error) {
	rows := len(c.Coefficients)
	if rows == 0 {
		return 0, fmt.Errorf("classifier has no classes")
	}
	cols := len(c.Coefficients[0])
	if len(x) != cols {
		return 0, fmt.Errorf("classifier expects %d features, got %d", cols, len(x))
	}

	flat := make([]float64, 0, rows*cols)
	for _, row := range c.Coefficients {
		flat = append(flat, row...)
	}
	w := mat.NewDense(rows, cols, flat)
	scores := mat.NewVecDense(rows, nil)
	scores.MulVec(w, mat.NewVecDense(cols, x))

	best := 0
	bestScore := scores.AtVec(0) + c.Intercepts[0]
	for i := 1; i < rows; i++ {
		if s := scores.AtVec(i) + c.Intercepts[i]; s > bestScore {
			best = i
			bestScore = s
		}
	}
	return c.Classes[best], nil
}

// LabelEncoder maps category labels to integer codes by position in its
// sorted class list.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Transform returns the code for a label, or an error for unseen labels.
func (e *LabelEncoder) Transform(label string) (int, error) {
	for i, c := range e.Classes {
		if c == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unseen label %q", label)
}

// Inverse returns the label for a code.
func (e *LabelEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("code %d outside %d classes", code, len(e.Classes))
	}
	return e.Classes[code], nil
}

// Bundle holds every artifact the model path needs. It is loaded once at
// process start and treated as read-only afterwards.
type Bundle struct {
	Scaler             *Scaler
	RiskModel          *LinearModel
	ReliabilityModel   *LinearClassifier
	FleetEncoder       *LabelEncoder
	ReliabilityEncoder *LabelEncoder
	AgeEncoder         *LabelEncoder
	Columns            []string
}

// Load reads a bundle directory. Loading is all or nothing: a missing,
// corrupt or shape-mismatched artifact fails the whole bundle.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{}
	files := []struct {
		name string
		dst  any
	}{
		{ScalerFile, &b.Scaler},
		{RiskModelFile, &b.RiskModel},
		{ReliabilityModelFile, &b.ReliabilityModel},
		{FleetEncoderFile, &b.FleetEncoder},
		{ReliabilityEncoderFile, &b.ReliabilityEncoder},
		{AgeEncoderFile, &b.AgeEncoder},
		{FeatureColumnsFile, &b.Columns},
	}
	for _, f := range files {
		if err := readJSON(filepath.Join(dir, f.name), f.dst); err != nil {
			return nil, fmt.Errorf("artifact bundle: %w", err)
		}
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("artifact bundle: %w", err)
	}
	return b, nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (b *Bundle) validate() error {
	if len(b.Columns) != features.Count {
		return fmt.Errorf("expected %d feature columns, got %d", features.Count, len(b.Columns))
	}
	for i, want := range features.Columns() {
		if b.Columns[i] != want {
			return fmt.Errorf("feature column %d is %q, expected %q", i, b.Columns[i], want)
		}
	}
	if len(b.Scaler.Mean) != features.Count || len(b.Scaler.Scale) != features.Count {
		return fmt.Errorf("scaler shape %d/%d does not match %d features",
			len(b.Scaler.Mean), len(b.Scaler.Scale), features.Count)
	}
	for i, s := range b.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("scaler scale is zero at column %q", b.Columns[i])
		}
	}
	if len(b.RiskModel.Coefficients) != features.Count {
		return fmt.Errorf("risk model has %d coefficients, expected %d",
			len(b.RiskModel.Coefficients), features.Count)
	}
	cls := b.ReliabilityModel
	if len(cls.Classes) == 0 {
		return fmt.Errorf("reliability model has no classes")
	}
	if len(cls.Coefficients) != len(cls.Classes) || len(cls.Intercepts) != len(cls.Classes) {
		return fmt.Errorf("reliability model rows %d, intercepts %d, classes %d must agree",
			len(cls.Coefficients), len(cls.Intercepts), len(cls.Classes))
	}
	for i, row := range cls.Coefficients {
		if len(row) != features.Count {
			return fmt.Errorf("reliability model row %d has %d coefficients, expected %d",
				i, len(row), features.Count)
		}
	}
	for name, enc := range map[string]*LabelEncoder{
		FleetEncoderFile:       b.FleetEncoder,
		ReliabilityEncoderFile: b.ReliabilityEncoder,
		AgeEncoderFile:         b.AgeEncoder,
	} {
		if len(enc.Classes) == 0 {
			return fmt.Errorf("%s has no classes", name)
		}
		if !sort.StringsAreSorted(enc.Classes) {
			return fmt.Errorf("%s classes are not sorted", name)
		}
	}
	for _, code := range cls.Classes {
		if code < 0 || code >= len(b.ReliabilityEncoder.Classes) {
			return fmt.Errorf("reliability model class code %d outside encoder range", code)
		}
	}
	return nil
}

// EncodeFleet implements features.Encoders.
func (b *Bundle) EncodeFleet(fleet string) (float64, error) {
	code, err := b.FleetEncoder.Transform(fleet)
	return float64(code), err
}

// EncodeReliability implements features.Encoders.
func (b *Bundle) EncodeReliability(cat model.ReliabilityCategory) (float64, error) {
	code, err := b.ReliabilityEncoder.Transform(string(cat))
	return float64(code), err
}

// EncodeAge implements features.Encoders.
func (b *Bundle) EncodeAge(cat model.AgeCategory) (float64, error) {
	code, err := b.AgeEncoder.Transform(string(cat))
	return float64(code), err
}

// DecodeReliability maps a classifier code back to its category label.
func (b *Bundle) DecodeReliability(code int) (model.ReliabilityCategory, error) {
	label, err := b.ReliabilityEncoder.Inverse(code)
	return model.ReliabilityCategory(label), err
}
