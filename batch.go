package geoproj

import (
	"runtime"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// ProjectBatch projects a batch of geodetic coordinates, splitting the
// work across GOMAXPROCS goroutines. Each point reads only immutable
// projector state and writes only its own output slot, so the result
// is deterministic. The returned error is the first (by input index)
// error encountered; the corresponding output slots hold the
// per-point fallback values.
func ProjectBatch(p Projector, lls []s2.LatLng) ([]orb.Point, error) {
	out := make([]orb.Point, len(lls))
	errs := make([]error, len(lls))
	forEachChunk(len(lls), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i], errs[i] = p.Project(lls[i])
		}
	})
	return out, firstError(errs)
}

// UnprojectBatch is the inverse of ProjectBatch. Slots whose inverse
// solve did not converge hold the origin fallback, and the first such
// error is returned.
func UnprojectBatch(p Projector, pts []orb.Point) ([]s2.LatLng, error) {
	out := make([]s2.LatLng, len(pts))
	errs := make([]error, len(pts))
	forEachChunk(len(pts), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i], errs[i] = p.Unproject(pts[i])
		}
	})
	return out, firstError(errs)
}

// forEachChunk runs fn over contiguous index ranges covering [0, n) on
// up to GOMAXPROCS goroutines.
func forEachChunk(n int, fn func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
