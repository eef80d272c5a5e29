package dataset

import (
	"fmt"

	"github.com/scigolab/varimp/pkg/errors"
)

// Group names a set of feature columns that is scored as one joint unit:
// permuted with a single shared row permutation, reconstructed together, or
// removed together.
type Group struct {
	Name    string
	Columns []int
}

// Groups is an ordered collection of feature groups. Order determines the
// group index used for random stream derivation, so it is part of a run's
// reproducible identity.
type Groups []Group

// SingleFeatureGroups builds the default grouping: one group per raw feature,
// named x0..x{n-1}.
func SingleFeatureGroups(nFeatures int) Groups {
	groups := make(Groups, nFeatures)
	for j := 0; j < nFeatures; j++ {
		groups[j] = Group{Name: fmt.Sprintf("x%d", j), Columns: []int{j}}
	}
	return groups
}

// Validate checks the grouping against the dataset's column range. Any
// violation is a ConfigurationError: it is raised before computation starts.
func (g Groups) Validate(nFeatures int) error {
	if len(g) == 0 {
		return errors.NewConfigurationError("groups", "no feature groups defined", 0)
	}

	seen := make(map[string]bool, len(g))
	for _, group := range g {
		if group.Name == "" {
			return errors.NewConfigurationError("groups", "group with empty name", group)
		}
		if seen[group.Name] {
			return errors.NewConfigurationError("groups", "duplicate group name", group.Name)
		}
		seen[group.Name] = true

		if len(group.Columns) == 0 {
			return errors.NewConfigurationError("groups", "group has no columns", group.Name)
		}
		for _, col := range group.Columns {
			if col < 0 || col >= nFeatures {
				return errors.NewConfigurationError("groups",
					fmt.Sprintf("group %q references column %d outside [0, %d)", group.Name, col, nFeatures), col)
			}
		}
	}
	return nil
}

// Names returns the group names in order.
func (g Groups) Names() []string {
	names := make([]string, len(g))
	for i, group := range g {
		names[i] = group.Name
	}
	return names
}
