package service

import (
	"errors"
	"fmt"
	"log/slog"

	"semaxis/internal/axis"
	"semaxis/internal/config"
	"semaxis/internal/domain"
	"semaxis/internal/embedding"
	"semaxis/internal/evaluation"
	"semaxis/internal/examples"
	"semaxis/internal/projection"
)

// Options holds everything the service needs besides the embedder.
type Options struct {
	PositiveFile     string
	NegativeFile     string
	AxisFile         string
	BootstrapSamples bool
	Thresholds       projection.Thresholds
	Weights          evaluation.Weights
	Grades           evaluation.Grades
}

// OptionsFromConfig maps the application config onto service options.
func OptionsFromConfig(cfg *config.AppConfig) Options {
	ev := cfg.Evaluation
	return Options{
		PositiveFile:     cfg.Data.PositiveFile,
		NegativeFile:     cfg.Data.NegativeFile,
		AxisFile:         cfg.Data.AxisFile,
		BootstrapSamples: cfg.Data.BootstrapSamples,
		Thresholds: projection.Thresholds{
			High:     cfg.Scoring.High,
			Moderate: cfg.Scoring.Moderate,
			Low:      cfg.Scoring.Low,
		},
		Weights: evaluation.Weights{
			Accuracy:        ev.AccuracyWeight,
			Separation:      ev.SeparationWeight,
			Consistency:     ev.ConsistencyWeight,
			SeparationScale: ev.SeparationScale,
			SeparationCap:   ev.SeparationCap,
			OverlapPenalty:  ev.OverlapPenalty,
		},
		Grades: evaluation.Grades{
			Excellent: ev.ExcellentAbove,
			Good:      ev.GoodAbove,
			Fair:      ev.FairAbove,
		},
	}
}

// AxisService ties the example files, the persisted axis and the scorer together.
type AxisService struct {
	embedder embedding.Embedder
	opts     Options
	log      *slog.Logger

	positive []string
	negative []string
	prepared bool
	scorer   *projection.Scorer
}

// NewAxisService creates a service; nothing is read until Prepare.
func NewAxisService(e embedding.Embedder, opts Options, log *slog.Logger) *AxisService {
	return &AxisService{embedder: e, opts: opts, log: log}
}

// Prepare loads the example files, writing the built-in samples first when
// bootstrapping is enabled, and fits the embedder on both classes.
func (s *AxisService) Prepare() error {
	if s.opts.BootstrapSamples {
		created, err := examples.EnsureSamples(s.opts.PositiveFile, s.opts.NegativeFile)
		if err != nil {
			return fmt.Errorf("write sample examples: %w", err)
		}
		if created {
			s.log.Info("wrote sample examples", "positive", s.opts.PositiveFile, "negative", s.opts.NegativeFile)
		}
	}
	pos, err := examples.Load(s.opts.PositiveFile)
	if err != nil {
		return err
	}
	neg, err := examples.Load(s.opts.NegativeFile)
	if err != nil {
		return err
	}
	corpus := make([]string, 0, len(pos)+len(neg))
	corpus = append(corpus, pos...)
	corpus = append(corpus, neg...)
	if err := s.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("prepare embedder %s: %w", s.embedder.Name(), err)
	}
	s.positive, s.negative = pos, neg
	s.prepared = true
	s.log.Info("examples loaded", "positive", len(pos), "negative", len(neg), "embedder", s.embedder.Name())
	return nil
}

// Build computes the axis from the examples and saves it.
func (s *AxisService) Build() (axis.Axis, error) {
	if err := s.ensurePrepared(); err != nil {
		return nil, err
	}
	a, err := axis.NewBuilder(s.embedder).Build(s.positive, s.negative)
	if err != nil {
		return nil, fmt.Errorf("build axis: %w", err)
	}
	// a degenerate axis is never written, so the next LoadOrBuild retries the build
	sc, err := s.newScorer(a)
	if err != nil {
		return nil, err
	}
	if err := axis.Save(s.opts.AxisFile, a); err != nil {
		return nil, err
	}
	s.scorer = sc
	s.log.Info("axis built", "dimension", a.Dimension(), "norm", a.Norm(), "path", s.opts.AxisFile)
	return a, nil
}

// LoadOrBuild loads the saved axis, building it only when no file exists.
// A malformed file is reported, not overwritten.
func (s *AxisService) LoadOrBuild() (axis.Axis, bool, error) {
	if err := s.ensurePrepared(); err != nil {
		return nil, false, err
	}
	a, err := axis.Load(s.opts.AxisFile)
	var notFound *domain.AxisNotFoundError
	if errors.As(err, &notFound) {
		s.log.Info("no saved axis, building", "path", s.opts.AxisFile)
		a, err = s.Build()
		return a, err == nil, err
	}
	if err != nil {
		return nil, false, err
	}
	if dim := s.embedder.Dimension(); dim > 0 && dim != a.Dimension() {
		return nil, false, fmt.Errorf("saved axis %s does not match embedder %s, rebuild it: %w",
			s.opts.AxisFile, s.embedder.Name(), domain.NewDimensionMismatchError(dim, a.Dimension()))
	}
	s.log.Info("axis loaded", "dimension", a.Dimension(), "path", s.opts.AxisFile)
	sc, err := s.newScorer(a)
	if err != nil {
		return nil, false, err
	}
	s.scorer = sc
	return a, false, nil
}

// Scorer returns the scorer for the current axis.
func (s *AxisService) Scorer() (*projection.Scorer, error) {
	if s.scorer == nil {
		return nil, errors.New("no axis loaded; call Build or LoadOrBuild first")
	}
	return s.scorer, nil
}

// Score projects one text onto the current axis.
func (s *AxisService) Score(text string) (projection.Projection, error) {
	sc, err := s.Scorer()
	if err != nil {
		return projection.Projection{}, err
	}
	score, err := sc.Score(text)
	if err != nil {
		return projection.Projection{}, err
	}
	return projection.Projection{Text: text, Score: score, Relevance: sc.Interpret(score)}, nil
}

// Analyze scores texts in one batch.
func (s *AxisService) Analyze(texts []string) ([]projection.Projection, error) {
	sc, err := s.Scorer()
	if err != nil {
		return nil, err
	}
	return sc.Analyze(texts)
}

// Evaluate runs the full evaluation report on ds.
func (s *AxisService) Evaluate(ds examples.Dataset) (evaluation.Report, error) {
	sc, err := s.Scorer()
	if err != nil {
		return evaluation.Report{}, err
	}
	r, err := evaluation.NewEvaluator(sc, s.opts.Weights, s.opts.Grades).Run(ds)
	if err != nil {
		return evaluation.Report{}, err
	}
	s.log.Info("evaluation finished",
		"accuracy", r.Labels.Accuracy,
		"separation", r.Separation.Separation,
		"consistency", r.Consistency.Consistency,
		"overall", r.Overall,
		"quality", r.Quality.String())
	return r, nil
}

func (s *AxisService) ensurePrepared() error {
	if s.prepared {
		return nil
	}
	return s.Prepare()
}

func (s *AxisService) newScorer(a axis.Axis) (*projection.Scorer, error) {
	return projection.NewScorer(a, s.embedder, s.opts.Thresholds)
}
