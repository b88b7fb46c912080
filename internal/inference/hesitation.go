package inference

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/internal/mlmodel"
	"agilesense.ai/services/internal/model"
)

const (
	fallbackPositiveConfidence = 0.8
	fallbackNegativeConfidence = 0.2
)

// Scaler transforms a raw feature row into the classifier's input space.
type Scaler interface {
	Transform(x []float64) ([]float64, error)
}

// Classifier predicts a class label for a scaled feature row.
type Classifier interface {
	Predict(x []float64) (mlmodel.Label, error)
}

// ProbabilityClassifier is a Classifier that also exposes class
// probabilities, ordered as ClassLabels.
type ProbabilityClassifier interface {
	Classifier
	PredictProba(x []float64) ([]float64, error)
	ClassLabels() []mlmodel.Label
}

type Thresholds struct {
	High   float64
	Medium float64
}

func (t Thresholds) Level(confidence float64) model.HesitationLevel {
	switch {
	case confidence > t.High:
		return model.HesitationHigh
	case confidence > t.Medium:
		return model.HesitationMedium
	default:
		return model.HesitationLow
	}
}

type HesitationDetector struct {
	classifier Classifier
	scaler     Scaler
	thresholds Thresholds
}

func NewHesitationDetector(classifier Classifier, scaler Scaler, thresholds Thresholds) *HesitationDetector {
	return &HesitationDetector{
		classifier: classifier,
		scaler:     scaler,
		thresholds: thresholds,
	}
}

func (d *HesitationDetector) Ready() bool {
	return d != nil && d.classifier != nil && d.scaler != nil
}

func (d *HesitationDetector) Detect(ctx context.Context, text string) (model.HesitationVerdict, error) {
	if !d.Ready() {
		return model.HesitationVerdict{}, notReady("hesitation model")
	}

	sc := logger.StartSpan(ctx, "inference.hesitation.detect")
	defer sc.End()
	ctx = sc.Context()

	features := ExtractFeatures(text)

	scaled, err := d.scaler.Transform(features.Values())
	if err != nil {
		sc.RecordError(err)
		return model.HesitationVerdict{}, &InferenceError{Op: "scale features", Err: err}
	}

	label, err := d.classifier.Predict(scaled)
	if err != nil {
		sc.RecordError(err)
		return model.HesitationVerdict{}, &InferenceError{Op: "classify hesitation", Err: err}
	}
	detected := label.Positive()

	confidence, err := d.confidence(scaled, label, detected)
	if err != nil {
		sc.RecordError(err)
		return model.HesitationVerdict{}, &InferenceError{Op: "hesitation probabilities", Err: err}
	}

	verdict := model.HesitationVerdict{
		Detected:   detected,
		Confidence: confidence,
		Level:      d.thresholds.Level(confidence),
		Features:   features,
	}

	sc.SetAttributes(
		attribute.Bool("hesitation.detected", verdict.Detected),
		attribute.Float64("hesitation.confidence", verdict.Confidence),
	)
	slog.InfoContext(ctx, "hesitation detected",
		"detected", verdict.Detected,
		"confidence", verdict.Confidence,
		"level", verdict.Level)

	return verdict, nil
}

func (d *HesitationDetector) confidence(x []float64, label mlmodel.Label, detected bool) (float64, error) {
	pc, ok := d.classifier.(ProbabilityClassifier)
	if !ok {
		if detected {
			return fallbackPositiveConfidence, nil
		}
		return fallbackNegativeConfidence, nil
	}

	proba, err := pc.PredictProba(x)
	if err != nil {
		return 0, err
	}
	for i, l := range pc.ClassLabels() {
		if l == label && i < len(proba) {
			return proba[i], nil
		}
	}
	return 0, nil
}
