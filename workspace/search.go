// Package workspace searches link-length candidates for configurations whose
// workspace covers a target point cloud. Every target must be reachable by
// inverse kinematics for a candidate to qualify; a single unreachable target
// disqualifies it.
package workspace

import (
	"context"
	"runtime"
	"sync"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/urtrobotics/armkit/dh"
	"github.com/urtrobotics/armkit/kinematics"
	"github.com/urtrobotics/armkit/spatialmath"
)

// Target is one pose of the point cloud a candidate arm must reach.
type Target struct {
	Point       r3.Vector
	Orientation *spatialmath.EulerAngles
}

// Result records the outcome for one candidate link-length set.
type Result struct {
	Links   []float64
	Covered bool
	// FailedTarget is the index of the first unreachable target, -1 when the
	// candidate covers the cloud.
	FailedTarget int
}

// Search evaluates every candidate against every target. Candidates are
// independent of each other, so they are fanned out across worker
// goroutines; results come back in candidate order. Joint-limit and
// degeneracy failures count the same as out-of-workspace targets. Only
// malformed candidates (wrong length count, non-positive lengths) surface as
// errors.
func Search(ctx context.Context, topo *dh.Topology, candidates [][]float64, targets []Target, logger golog.Logger) ([]Result, error) {
	nWorkers := runtime.GOMAXPROCS(0)
	if nWorkers > len(candidates) {
		nWorkers = len(candidates)
	}
	results := make([]Result, len(candidates))

	jobs := make(chan int)
	var workers sync.WaitGroup
	var errMu sync.Mutex
	var searchErr error

	for i := 0; i < nWorkers; i++ {
		workers.Add(1)
		goutils.PanicCapturingGo(func() {
			defer workers.Done()
			for idx := range jobs {
				result, err := evaluate(topo, candidates[idx], targets)
				if err != nil {
					errMu.Lock()
					searchErr = multierr.Combine(searchErr, err)
					errMu.Unlock()
					continue
				}
				results[idx] = result
			}
		})
	}

	for idx := range candidates {
		if ctx.Err() != nil {
			break
		}
		jobs <- idx
	}
	close(jobs)
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if searchErr != nil {
		return nil, searchErr
	}

	covered := 0
	for _, result := range results {
		if result.Covered {
			covered++
		}
	}
	logger.Debugw("workspace search complete", "candidates", len(candidates), "covering", covered)
	return results, nil
}

// Covering filters a result set down to the candidates that reached every
// target.
func Covering(results []Result) []Result {
	var covering []Result
	for _, result := range results {
		if result.Covered {
			covering = append(covering, result)
		}
	}
	return covering
}

func evaluate(topo *dh.Topology, links []float64, targets []Target) (Result, error) {
	solver, err := kinematics.NewClosedFormSolver(topo, links)
	if err != nil {
		return Result{}, err
	}
	result := Result{Links: links, Covered: true, FailedTarget: -1}
	for i, target := range targets {
		pose := spatialmath.NewPose(target.Point, target.Orientation.RotationMatrix())
		if _, err := solver.Solutions(pose); err != nil {
			result.Covered = false
			result.FailedTarget = i
			break
		}
	}
	return result, nil
}
