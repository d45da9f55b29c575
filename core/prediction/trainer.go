package prediction

import (
	"math"
	"time"

	"github.com/ezoic/scigo/linear"
	"github.com/ezoic/scigo/preprocessing"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/edusight/edusight/core/academics"
)

// TrainingRow pairs a historical feature vector with the grade the student
// actually obtained (reported through prediction feedback).
type TrainingRow struct {
	Features    academics.FeatureVector
	ActualGrade float64
}

// TrainingReport summarizes a training run.
type TrainingReport struct {
	Samples int
	MAE     float64
	R2      float64
}

const minTrainingSamples = 10

// Train fits a standard-scaled linear regression on the rows and extracts it
// into a self-contained Artifact. The scaler parameters and the model
// coefficients are recovered by probing: transforming the zero and all-ones
// rows yields the per-feature mean/std, and predicting on the scaled-space
// unit rows yields intercept and coefficients.
func Train(rows []TrainingRow) (*Artifact, TrainingReport, error) {
	if len(rows) < minTrainingSamples {
		return nil, TrainingReport{}, errors.Errorf("need at least %d samples, got %d", minTrainingSamples, len(rows))
	}

	X := mat.NewDense(len(rows), featureCount, nil)
	y := mat.NewDense(len(rows), 1, nil)
	for i, row := range rows {
		X.SetRow(i, featureValues(row.Features))
		y.Set(i, 0, row.ActualGrade)
	}

	scaler := preprocessing.NewStandardScaler(true, true) // withMean, withStd
	if err := scaler.Fit(X); err != nil {
		return nil, TrainingReport{}, errors.Wrap(err, "fitting scaler")
	}
	XScaled, err := scaler.Transform(X)
	if err != nil {
		return nil, TrainingReport{}, errors.Wrap(err, "scaling features")
	}

	model := linear.NewLinearRegression()
	if err := model.Fit(XScaled, y); err != nil {
		return nil, TrainingReport{}, errors.Wrap(err, "fitting regression")
	}

	means, stds, err := extractScalerParams(scaler)
	if err != nil {
		return nil, TrainingReport{}, err
	}
	intercept, coefs, err := extractLinearParams(model)
	if err != nil {
		return nil, TrainingReport{}, err
	}

	r2, err := model.Score(XScaled, y)
	if err != nil {
		return nil, TrainingReport{}, errors.Wrap(err, "scoring model")
	}
	preds, err := model.Predict(XScaled)
	if err != nil {
		return nil, TrainingReport{}, errors.Wrap(err, "predicting training set")
	}
	var absErrSum float64
	for i := range rows {
		absErrSum += math.Abs(preds.At(i, 0) - rows[i].ActualGrade)
	}

	artifact := &Artifact{
		Intercept:    intercept,
		Coefficients: coefs,
		Means:        means,
		Stds:         stds,
		TrainedAt:    time.Now().UTC().Format(time.RFC3339),
		Samples:      len(rows),
	}
	report := TrainingReport{
		Samples: len(rows),
		MAE:     absErrSum / float64(len(rows)),
		R2:      r2,
	}
	return artifact, report, nil
}

func extractScalerParams(scaler *preprocessing.StandardScaler) ([]float64, []float64, error) {
	zeros := mat.NewDense(1, featureCount, nil)
	ones := mat.NewDense(1, featureCount, nil)
	for j := 0; j < featureCount; j++ {
		ones.Set(0, j, 1)
	}

	t0, err := scaler.Transform(zeros)
	if err != nil {
		return nil, nil, errors.Wrap(err, "probing scaler")
	}
	t1, err := scaler.Transform(ones)
	if err != nil {
		return nil, nil, errors.Wrap(err, "probing scaler")
	}

	means := make([]float64, featureCount)
	stds := make([]float64, featureCount)
	for j := 0; j < featureCount; j++ {
		// transform(x) = (x - mean) / std, so transform(1)-transform(0) = 1/std
		inv := t1.At(0, j) - t0.At(0, j)
		if inv == 0 {
			inv = 1
		}
		stds[j] = 1 / inv
		means[j] = -t0.At(0, j) * stds[j]
	}
	return means, stds, nil
}

func extractLinearParams(model *linear.LinearRegression) (float64, []float64, error) {
	probe := mat.NewDense(featureCount+1, featureCount, nil)
	for j := 0; j < featureCount; j++ {
		probe.Set(j+1, j, 1) // row 0 stays all-zero
	}
	out, err := model.Predict(probe)
	if err != nil {
		return 0, nil, errors.Wrap(err, "probing regression")
	}

	intercept := out.At(0, 0)
	coefs := make([]float64, featureCount)
	for j := 0; j < featureCount; j++ {
		coefs[j] = out.At(j+1, 0) - intercept
	}
	return intercept, coefs, nil
}
