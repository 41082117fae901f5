package services

import (
	"fmt"

	"github.com/vsinha/blendtrack/pkg/application/dto"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

// SortPolicy normalizes requested sort criteria with a duplicate policy before
// they reach a repository
type SortPolicy struct {
	Duplicates sorting.DuplicatePolicy
}

// listOptions turns a list query into repository options. Criteria pass
// through a sort manager so unknown fields and duplicates are handled the same
// way for every store.
func listOptions[T any](in dto.ListInput, fields *sorting.Fields[T], policy SortPolicy) (repositories.ListOptions, error) {
	if err := validateInput(in); err != nil {
		return repositories.ListOptions{}, err
	}
	criteria, err := sorting.ParseCriteria(in.Sort)
	if err != nil {
		return repositories.ListOptions{}, err
	}

	manager := sorting.NewManager(fields, sorting.WithDuplicatePolicy(policy.Duplicates))
	for _, c := range criteria {
		if err := manager.AddSort(c); err != nil {
			return repositories.ListOptions{}, fmt.Errorf("sort %q under %s: %w", in.Sort, manager.Policy(), err)
		}
	}

	opts := repositories.ListOptions{
		Sorts:      manager.GetSorts(),
		ActiveOnly: in.Active,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	for _, raw := range in.Status {
		status, err := entities.ParseBlendStatus(raw)
		if err != nil {
			return repositories.ListOptions{}, err
		}
		opts.Statuses = append(opts.Statuses, status)
	}
	return opts, nil
}
