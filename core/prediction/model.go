package prediction

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/edusight/edusight/core/academics"
)

const featureCount = 7

// Artifact is a persisted linear regression model with its feature scaler,
// serialized as JSON. Applying it does not require the training stack.
type Artifact struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"` // len 7, feature order below
	Means        []float64 `json:"means"`        // scaler means, len 7
	Stds         []float64 `json:"stds"`         // scaler standard deviations, len 7
	TrainedAt    string    `json:"trained_at"`
	Samples      int       `json:"samples"`
}

// featureValues flattens a vector in the fixed order shared by the trainer
// and the artifact.
func featureValues(v academics.FeatureVector) []float64 {
	return []float64{
		v.AttendanceRate,
		v.TestAverage,
		v.AssignmentsCompleted,
		v.ParticipationScore,
		v.PreviousGrade,
		v.StudyHours,
		v.QuizScores,
	}
}

func (a *Artifact) valid() bool {
	return a != nil &&
		len(a.Coefficients) == featureCount &&
		len(a.Means) == featureCount &&
		len(a.Stds) == featureCount
}

// Apply scales the features and runs the regression. The caller clamps.
func (a *Artifact) Apply(v academics.FeatureVector) float64 {
	vals := featureValues(v)
	pred := a.Intercept
	for i, x := range vals {
		std := a.Stds[i]
		if std == 0 {
			std = 1
		}
		pred += a.Coefficients[i] * ((x - a.Means[i]) / std)
	}
	return pred
}

// LoadArtifact reads a persisted model from path. A missing file is a normal
// condition and returns (nil, nil): the engine then uses the fallback formula.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading model artifact")
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "decoding model artifact")
	}
	if !a.valid() {
		return nil, errors.New("model artifact has the wrong shape")
	}
	return &a, nil
}

// Save writes the artifact to path, creating parent directories as needed.
func (a *Artifact) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding model artifact")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating model artifact dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing model artifact")
	}
	return nil
}
