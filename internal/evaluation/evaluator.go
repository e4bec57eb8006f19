package evaluation

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"semaxis/internal/domain"
	"semaxis/internal/examples"
	"semaxis/internal/projection"
)

// Weights is the policy folding the three metric families into one score:
// Accuracy*acc + Separation*min(sep/SeparationScale, SeparationCap)
// + Consistency*cons - OverlapPenalty*overlap, clamped to [0, 1].
type Weights struct {
	Accuracy        float64
	Separation      float64
	Consistency     float64
	SeparationScale float64
	SeparationCap   float64
	OverlapPenalty  float64
}

// DefaultWeights gives each family a third and penalizes overlap by 0.2.
func DefaultWeights() Weights {
	return Weights{
		Accuracy:        1.0 / 3,
		Separation:      1.0 / 3,
		Consistency:     1.0 / 3,
		SeparationScale: 2.0,
		SeparationCap:   1.0,
		OverlapPenalty:  0.2,
	}
}

// Quality grades an overall score.
type Quality int

const (
	NeedsImprovement Quality = iota
	Fair
	Good
	Excellent
)

func (q Quality) String() string {
	switch q {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case Fair:
		return "fair"
	default:
		return "needs improvement"
	}
}

// Grades are the exclusive lower bounds of each quality grade.
type Grades struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// DefaultGrades returns 0.8 / 0.6 / 0.4.
func DefaultGrades() Grades {
	return Grades{Excellent: 0.8, Good: 0.6, Fair: 0.4}
}

// Grade maps an overall score to a quality grade.
func (g Grades) Grade(overall float64) Quality {
	switch {
	case overall > g.Excellent:
		return Excellent
	case overall > g.Good:
		return Good
	case overall > g.Fair:
		return Fair
	default:
		return NeedsImprovement
	}
}

// Report is the outcome of a full evaluation run.
type Report struct {
	Labels      ClassificationMetrics
	Separation  SeparationMetrics
	Consistency ConsistencyMetrics
	Overall     float64
	Quality     Quality
}

// Evaluator measures how well an axis separates the two classes.
type Evaluator struct {
	scorer  *projection.Scorer
	weights Weights
	grades  Grades
}

// NewEvaluator creates an evaluator around scorer.
func NewEvaluator(scorer *projection.Scorer, w Weights, g Grades) *Evaluator {
	return &Evaluator{scorer: scorer, weights: w, grades: g}
}

// EvaluateLabels predicts label 1 for score > 0 and compares with the truth.
func (e *Evaluator) EvaluateLabels(exs []domain.LabeledExample) (ClassificationMetrics, error) {
	if len(exs) == 0 {
		return ClassificationMetrics{}, domain.NewEmptyInputError("labeled examples")
	}
	texts := make([]string, len(exs))
	for i, ex := range exs {
		if !ex.Label.Valid() {
			return ClassificationMetrics{}, domain.NewValidationErr(fmt.Sprintf("example %d has label %d, want 0 or 1", i, ex.Label))
		}
		texts[i] = ex.Text
	}
	scores, err := e.scorer.ScoreBatch(texts)
	if err != nil {
		return ClassificationMetrics{}, err
	}

	var cm ConfusionMatrix
	predicted := make([]domain.Label, len(exs))
	for i, ex := range exs {
		pred := domain.LabelIrrelevant
		if scores[i] > 0 {
			pred = domain.LabelRelevant
		}
		predicted[i] = pred
		switch {
		case pred == domain.LabelRelevant && ex.Label == domain.LabelRelevant:
			cm.TP++
		case pred == domain.LabelRelevant:
			cm.FP++
		case ex.Label == domain.LabelRelevant:
			cm.FN++
		default:
			cm.TN++
		}
	}
	return ClassificationMetrics{
		Accuracy:  cm.Accuracy(),
		Precision: cm.Precision(),
		Recall:    cm.Recall(),
		F1:        cm.F1(),
		Confusion: cm,
		Scores:    scores,
		Predicted: predicted,
	}, nil
}

// EvaluateSeparation compares the projection distributions of both classes.
// When both classes have zero spread it returns *domain.ZeroSpreadError.
func (e *Evaluator) EvaluateSeparation(positive, negative []string) (SeparationMetrics, error) {
	if len(positive) == 0 {
		return SeparationMetrics{}, domain.NewEmptyInputError("positive texts")
	}
	if len(negative) == 0 {
		return SeparationMetrics{}, domain.NewEmptyInputError("negative texts")
	}
	pos, err := e.scorer.ScoreBatch(positive)
	if err != nil {
		return SeparationMetrics{}, err
	}
	neg, err := e.scorer.ScoreBatch(negative)
	if err != nil {
		return SeparationMetrics{}, err
	}

	posMean, posStd := stat.PopMeanStdDev(pos, nil)
	negMean, negStd := stat.PopMeanStdDev(neg, nil)
	gap := math.Abs(posMean - negMean)
	spread := (posStd + negStd) / 2
	if spread == 0 {
		return SeparationMetrics{}, domain.NewZeroSpreadError(gap)
	}
	return SeparationMetrics{
		PositiveMean:   posMean,
		NegativeMean:   negMean,
		PositiveStd:    posStd,
		NegativeStd:    negStd,
		Separation:     gap / spread,
		Overlap:        Overlap(pos, neg),
		PositiveScores: pos,
		NegativeScores: neg,
	}, nil
}

// EvaluateConsistency ranks texts by score (descending, ties in input order)
// and measures agreement with expectedOrder.
func (e *Evaluator) EvaluateConsistency(texts, expectedOrder []string) (ConsistencyMetrics, error) {
	scores, err := e.scorer.ScoreBatch(texts)
	if err != nil {
		return ConsistencyMetrics{}, err
	}
	idx := make([]int, len(texts))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})
	actual := make([]string, len(texts))
	for i, j := range idx {
		actual[i] = texts[j]
	}

	consistency, inversions, err := OrderConsistency(actual, expectedOrder)
	if err != nil {
		return ConsistencyMetrics{}, err
	}
	return ConsistencyMetrics{
		Scores:        scores,
		ActualOrder:   actual,
		ExpectedOrder: slices.Clone(expectedOrder),
		Inversions:    inversions,
		Consistency:   consistency,
	}, nil
}

// OverallScore folds the metric families into a single score in [0, 1].
func (e *Evaluator) OverallScore(accuracy, separation, consistency, overlap float64) float64 {
	w := e.weights
	normSep := math.Min(separation/w.SeparationScale, w.SeparationCap)
	overall := w.Accuracy*accuracy + w.Separation*normSep + w.Consistency*consistency - w.OverlapPenalty*overlap
	return math.Max(0, math.Min(1, overall))
}

// Grade maps an overall score to a quality grade.
func (e *Evaluator) Grade(overall float64) Quality {
	return e.grades.Grade(overall)
}

// Run evaluates the axis against every section of ds.
func (e *Evaluator) Run(ds examples.Dataset) (Report, error) {
	if err := ds.Validate(); err != nil {
		return Report{}, err
	}
	labels, err := e.EvaluateLabels(ds.Labeled)
	if err != nil {
		return Report{}, fmt.Errorf("label evaluation: %w", err)
	}
	sep, err := e.EvaluateSeparation(ds.Positive, ds.Negative)
	if err != nil {
		return Report{}, fmt.Errorf("separation evaluation: %w", err)
	}
	cons, err := e.EvaluateConsistency(ds.ConsistencyTexts, ds.ExpectedOrder)
	if err != nil {
		return Report{}, fmt.Errorf("consistency evaluation: %w", err)
	}
	overall := e.OverallScore(labels.Accuracy, sep.Separation, cons.Consistency, sep.Overlap)
	return Report{
		Labels:      labels,
		Separation:  sep,
		Consistency: cons,
		Overall:     overall,
		Quality:     e.Grade(overall),
	}, nil
}
