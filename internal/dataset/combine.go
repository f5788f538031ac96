package dataset

import "github.com/ProjectCodeKw/reviewharvest/internal/domain"

// Input is one source table to merge, with the label written into the
// `source` column when rows don't carry one.
type Input struct {
	Label   string
	Reviews []domain.Review
}

// Combine concatenates source tables in encounter order. Column
// standardization (renames, N/A fill) already happened in the CSV codec, so
// the only work left is source tagging.
func Combine(inputs []Input) []domain.Review {
	var combined []domain.Review
	for _, in := range inputs {
		for _, r := range in.Reviews {
			if r.Source == "" || r.Source == domain.UnknownValue {
				r.Source = in.Label
			}
			combined = append(combined, r)
		}
	}
	return combined
}
