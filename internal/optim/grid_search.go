package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no candidate completed")

// GridSearch tries every combination of the given parameter values and keeps
// the one that minimizes a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Candidates is the number of runs a search performs.
func (g *GridSearch) Candidates() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs one experiment per grid point. Candidates that fail to build
// or run are skipped; their errors are joined into the returned error only
// when no candidate completed.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	s := &search{
		build:  buildExperiment,
		metric: metricName,
		best:   math.Inf(1),
	}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), s); err != nil {
		return nil, 0, err
	}
	if s.bestParams == nil {
		return nil, 0, errors.Join(append([]error{ErrNoCandidate}, s.errs...)...)
	}
	return s.bestParams, s.best, nil
}

type search struct {
	build      func(map[string]float64) (*experiment.Experiment, error)
	metric     string
	best       float64
	bestParams map[string]float64
	errs       []error
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, s *search) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
	}
	if depth == len(g.paramNames) {
		exp, err := s.build(current)
		if err != nil {
			s.errs = append(s.errs, err)
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			s.errs = append(s.errs, fmt.Errorf("%v: %w", current, err))
			return nil
		}

		val, ok := result.Metrics[s.metric]
		if !ok {
			s.errs = append(s.errs, fmt.Errorf("optim: metric %q not reported", s.metric))
			return nil
		}
		if val < s.best || s.bestParams == nil {
			s.best = val
			s.bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				s.bestParams[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, s); err != nil {
			return err
		}
	}
	return nil
}
