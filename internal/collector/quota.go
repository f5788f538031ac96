package collector

import "github.com/ProjectCodeKw/reviewharvest/internal/domain"

// CategoryCounts aggregates how many reviews a subject already has per
// sentiment bucket.
type CategoryCounts struct {
	Positive int
	Negative int
}

// Needs maps categories to the number of additional reviews to collect.
type Needs map[domain.Category]int

// Empty reports whether every category quota is already met.
func (n Needs) Empty() bool {
	for _, v := range n {
		if v > 0 {
			return false
		}
	}
	return true
}

// Planner computes per-subject remaining quotas. The target is split evenly
// between positive and negative, remainder going to negative.
type Planner struct {
	targetPerSubject int
}

// NewPlanner builds a planner for the given per-subject target.
func NewPlanner(targetPerSubject int) Planner {
	return Planner{targetPerSubject: targetPerSubject}
}

// Needed clamps target minus current to zero per category; a subject already
// at or above target yields zero rather than signaling overflow.
func (p Planner) Needed(current CategoryCounts) Needs {
	targetPos := p.targetPerSubject / 2
	targetNeg := p.targetPerSubject - targetPos

	return Needs{
		domain.CategoryPositive: clampZero(targetPos - current.Positive),
		domain.CategoryNegative: clampZero(targetNeg - current.Negative),
	}
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// CountBySubject derives current per-subject category counts from the
// persisted table.
func CountBySubject(reviews []domain.Review) map[string]CategoryCounts {
	counts := make(map[string]CategoryCounts)
	for _, r := range reviews {
		c := counts[r.SubjectID]
		switch r.Category {
		case domain.CategoryPositive:
			c.Positive++
		case domain.CategoryNegative:
			c.Negative++
		}
		counts[r.SubjectID] = c
	}
	return counts
}
