// Package log defines standard attribute keys for importance estimation runs.
//
// Using these keys keeps field names consistent across the driver, the
// strategies and the aggregation step, which makes run logs filterable by
// fold, group or strategy.
package log

// Run and strategy context.
const (
	// StrategyKey identifies the importance strategy being executed.
	// Standard values: "pfi", "cpi", "loco"
	StrategyKey = "importance.strategy"

	// EstimatorKey identifies the base estimator type.
	// Examples: "Ridge", "KNNClassifier"
	EstimatorKey = "estimator.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "importances", "aggregate"
	OperationKey = "operation"

	// SeedKey records the base random seed of the run.
	SeedKey = "run.seed"
)

// Fold and group context.
const (
	// FoldKey identifies the cross-validation fold index.
	FoldKey = "cv.fold"

	// FoldsKey records the total number of folds.
	FoldsKey = "cv.n_folds"

	// GroupKey identifies the feature group being scored.
	GroupKey = "group.name"

	// GroupsKey records the total number of feature groups.
	GroupsKey = "group.count"
)

// Data shape.
const (
	// SamplesKey records the number of samples involved in the operation.
	SamplesKey = "data.samples"

	// FeaturesKey records the number of feature columns.
	FeaturesKey = "data.features"

	// RepetitionsKey records the number of permutation repetitions.
	RepetitionsKey = "importance.repetitions"
)

// Performance and outcome.
const (
	// DurationMsKey records elapsed time in milliseconds.
	DurationMsKey = "duration_ms"

	// MissingKey records the number of missing (group, fold) records.
	MissingKey = "importance.missing"

	// WorkersKey records the concurrency limit of the fold pool.
	WorkersKey = "run.workers"
)
