package importance

import (
	"time"

	"github.com/scigolab/varimp/core/model"
	"github.com/scigolab/varimp/core/parallel"
	"github.com/scigolab/varimp/core/random"
	"github.com/scigolab/varimp/crossval"
	"github.com/scigolab/varimp/dataset"
	"github.com/scigolab/varimp/metrics"
	"github.com/scigolab/varimp/pkg/errors"
	"github.com/scigolab/varimp/pkg/log"
)

// Runner orchestrates one cross-fitted importance estimation run.
type Runner struct {
	factory  model.Factory
	strategy Strategy
	loss     metrics.Loss
	channel  model.OutputChannel
	groups   dataset.Groups
	splitter crossval.Splitter
	seed     int64
	workers  int
	logger   log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithChannel selects the estimator output channel the loss consumes.
// The default is OutputLabels.
func WithChannel(channel model.OutputChannel) Option {
	return func(r *Runner) { r.channel = channel }
}

// WithGroups sets the feature grouping. Unset, every feature forms its own
// singleton group.
func WithGroups(groups dataset.Groups) Option {
	return func(r *Runner) { r.groups = groups }
}

// WithSplitter replaces the default 5-fold shuffled splitter.
func WithSplitter(splitter crossval.Splitter) Option {
	return func(r *Runner) { r.splitter = splitter }
}

// WithSeed fixes the random seed. Two runs with the same seed and
// configuration produce bit-identical records regardless of worker count.
func WithSeed(seed int64) Option {
	return func(r *Runner) { r.seed = seed }
}

// WithWorkers bounds the number of folds processed concurrently.
// Values below 1 default to one worker per CPU core.
func WithWorkers(workers int) Option {
	return func(r *Runner) { r.workers = workers }
}

// New builds a Runner for the given base estimator factory, importance
// strategy and loss.
func New(factory model.Factory, strategy Strategy, loss metrics.Loss, opts ...Option) *Runner {
	r := &Runner{
		factory:  factory,
		strategy: strategy,
		loss:     loss,
		channel:  model.OutputLabels,
		seed:     1,
		logger:   log.GetLoggerWithName("importance"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// foldOutput is one fold's contribution, written into a pre-allocated slot
// so record order never depends on scheduling.
type foldOutput struct {
	model  model.Estimator
	scores []float64
	errs   []error
	fatal  error
}

// Run executes the estimation over every fold of d and returns the collected
// records. Configuration problems fail fast before any model is fitted.
// A fold whose base estimator cannot be fitted, or whose test partition is
// too small to evaluate, contributes missing records for every group and a
// warning, but does not abort the remaining folds.
func (r *Runner) Run(d *dataset.Dataset) (*Result, error) {
	if err := r.validate(d); err != nil {
		return nil, err
	}

	groups := r.groups
	if len(groups) == 0 {
		groups = dataset.SingleFeatureGroups(d.NumFeatures())
	}
	splitter := r.splitter
	if splitter == nil {
		splitter = crossval.NewKFold(5, true, r.seed)
	}

	folds := splitter.Split(d.X(), d.Y())
	source := random.NewSource(r.seed)

	start := time.Now()
	r.logger.Info("importance estimation started",
		log.StrategyKey, r.strategy.Name(),
		log.FoldsKey, len(folds),
		log.GroupsKey, len(groups),
		log.SamplesKey, d.NumSamples(),
		log.FeaturesKey, d.NumFeatures(),
		log.SeedKey, r.seed,
		log.WorkersKey, r.workers,
	)
	r.logger.Debug("feature groups resolved", "group_names", groups.Names())

	slots := make([]foldOutput, len(folds))
	parallel.ForEachTask(len(folds), r.workers, func(i int) error {
		slots[i] = r.runFold(d, folds[i], i, groups, source)
		return slots[i].fatal
	})

	result := &Result{
		Strategy: r.strategy.Name(),
		Groups:   groups,
		Folds:    len(folds),
		Records:  make([]Record, 0, len(folds)*len(groups)),
		Models:   make([]model.Estimator, len(folds)),
	}
	healthy := 0
	for fi, slot := range slots {
		result.Models[fi] = slot.model
		if slot.fatal != nil {
			warn := errors.NewFitWarning(fi, "", slot.fatal)
			errors.Warn(warn)
			result.Warnings = append(result.Warnings, warn)
			for _, g := range groups {
				result.Records = append(result.Records, Record{Group: g.Name, Fold: fi, Missing: true})
			}
			continue
		}
		healthy++
		for gi, g := range groups {
			if slot.errs[gi] != nil {
				warn := errors.NewFitWarning(fi, g.Name, slot.errs[gi])
				errors.Warn(warn)
				result.Warnings = append(result.Warnings, warn)
				result.Records = append(result.Records, Record{Group: g.Name, Fold: fi, Missing: true})
				continue
			}
			result.Records = append(result.Records, Record{Group: g.Name, Fold: fi, Value: slot.scores[gi]})
		}
	}

	if healthy == 0 {
		first := slots[0].fatal
		return nil, errors.Wrap(first, "every fold failed")
	}

	r.logger.Info("importance estimation finished",
		log.StrategyKey, r.strategy.Name(),
		log.MissingKey, result.MissingCount(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (r *Runner) validate(d *dataset.Dataset) error {
	if d == nil {
		return errors.NewConfigurationError("dataset", "must not be nil", nil)
	}
	if r.factory == nil {
		return errors.NewConfigurationError("factory", "must not be nil", nil)
	}
	if r.strategy == nil {
		return errors.NewConfigurationError("strategy", "must not be nil", nil)
	}
	if r.loss == nil {
		return errors.NewConfigurationError("loss", "must not be nil", nil)
	}
	if len(r.groups) > 0 {
		if err := r.groups.Validate(d.NumFeatures()); err != nil {
			return err
		}
	}
	if r.splitter != nil {
		k := r.splitter.NSplits()
		if k < 2 {
			return errors.NewConfigurationError("splitter", "fewer than 2 folds", k)
		}
		if k > d.NumSamples() {
			return errors.NewConfigurationError("splitter", "more folds than samples", k)
		}
	} else if d.NumSamples() < 5 {
		return errors.NewConfigurationError("splitter", "more folds than samples", 5)
	}
	return nil
}

// runFold fits the base estimator on one fold and delegates group scoring to
// the strategy. A returned fatal error marks the whole fold missing.
func (r *Runner) runFold(d *dataset.Dataset, fold crossval.Fold, fi int, groups dataset.Groups, source *random.Source) foldOutput {
	flog := r.logger.With(log.FoldKey, fi)

	trainX, trainY := d.Subset(fold.TrainIndices)
	testX, testY := d.Subset(fold.TestIndices)
	if testY.Len() < 2 {
		return foldOutput{fatal: errors.NewInsufficientDataError("fold evaluation", fi, testY.Len(), 2)}
	}

	est := r.factory()
	if err := errors.SafeExecute("base estimator fit", func() error {
		return est.Fit(trainX, trainY)
	}); err != nil {
		return foldOutput{fatal: errors.NewEstimatorFitError("base", fi, err)}
	}

	fc := &FoldContext{
		Fold:    fi,
		TrainX:  trainX,
		TrainY:  trainY,
		TestX:   testX,
		TestY:   testY,
		Model:   est,
		Groups:  groups,
		Loss:    r.loss,
		Channel: r.channel,
		Factory: r.factory,
		source:  source,
	}
	baseline, err := lossOnChannel(fc, est, testX)
	if err != nil {
		return foldOutput{model: est, fatal: err}
	}
	fc.Baseline = baseline
	flog.Debug("fold baseline evaluated", "baseline_loss", baseline)

	scores, errs := r.strategy.GroupScores(fc)
	return foldOutput{model: est, scores: scores, errs: errs}
}
