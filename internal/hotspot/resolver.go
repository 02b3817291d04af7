// Package hotspot resolves per-component temperature peaks: each
// component footprint is mapped into the thermal matrix, queried for
// its hottest sample, filtered against a temperature window, and
// optionally deduplicated so one physical hotspot is attributed to a
// single component.
package hotspot

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"pcb-thermal/internal/alignment"
	"pcb-thermal/internal/board"
	"pcb-thermal/internal/pipeline"
	"pcb-thermal/internal/thermal"
	"pcb-thermal/pkg/geometry"
)

// ErrMissingDependency signals that the resolver was asked to run
// before all of its inputs were supplied.
var ErrMissingDependency = errors.New("missing dependency")

// queryWorkers bounds the number of goroutines mapping and querying
// component regions concurrently.
const queryWorkers = 8

// Record is one resolved hotspot. The box corners and peak location
// are integer pixels in the space the record belongs to: thermal
// matrix pixels for thermal records, layout image pixels for layout
// records.
type Record struct {
	RefDes      string  `json:"refdes"`
	Description string  `json:"description,omitempty"`
	X1          int     `json:"x1"`
	Y1          int     `json:"y1"`
	X2          int     `json:"x2"`
	Y2          int     `json:"y2"`
	CX          int     `json:"cx"`
	CY          int     `json:"cy"`
	MaxTemp     float64 `json:"max_temp"`
}

// Resolver holds the inputs of a hotspot query. All fields must be set
// before calling Resolve or ResolveDeduped.
type Resolver struct {
	Components []board.Component
	Matrix     *thermal.Matrix
	Transform  *alignment.Transform
	Geometry   board.Geometry

	// Temperature window: components whose peak falls outside
	// [MinTemp, MaxTemp] are dropped.
	MinTemp float64
	MaxTemp float64
}

// Validate checks that every input the resolver needs is present.
func (r *Resolver) Validate() error {
	if r.Matrix == nil {
		return fmt.Errorf("%w: temperature matrix not loaded", ErrMissingDependency)
	}
	if r.Transform == nil {
		return fmt.Errorf("%w: image transform not estimated", ErrMissingDependency)
	}
	if len(r.Components) == 0 {
		return fmt.Errorf("%w: no components loaded", ErrMissingDependency)
	}
	if err := r.Geometry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if r.MinTemp > r.MaxTemp {
		return fmt.Errorf("temperature window [%g, %g] is inverted", r.MinTemp, r.MaxTemp)
	}
	return nil
}

// candidate pairs a component with its mapped regions and initial peak.
type candidate struct {
	component  board.Component
	thermalBox pipeline.ThermalBox
	layoutRect geometry.Rect
	peak       thermal.Peak
}

// Resolve maps every component into the thermal matrix, queries the
// hottest sample of each footprint, and returns records for the
// components whose peak lies inside the temperature window, hottest
// first. The two slices are parallel: index i of both describes the
// same component, located in thermal and layout pixels respectively.
func (r *Resolver) Resolve() (thermalRecs, layoutRecs []Record, err error) {
	candidates, err := r.collect()
	if err != nil {
		return nil, nil, err
	}
	return r.records(candidates), r.layoutRecords(candidates), nil
}

// ResolveDeduped is Resolve with overlap suppression: after sorting
// hottest first, each candidate is re-queried against a working copy
// of the matrix in which every accepted footprint has been zeroed. A
// candidate whose re-queried peak fell out of the window claimed a
// hotspot already attributed to a hotter component and is dropped;
// otherwise it is accepted with the re-queried peak and its own
// footprint is zeroed in turn.
func (r *Resolver) ResolveDeduped() (thermalRecs, layoutRecs []Record, err error) {
	candidates, err := r.collect()
	if err != nil {
		return nil, nil, err
	}

	working := r.Matrix.Clone()
	var kept []*candidate
	for _, c := range candidates {
		peak, err := working.MaxInBox(
			float64(c.thermalBox.Left), float64(c.thermalBox.Top),
			float64(c.thermalBox.Right), float64(c.thermalBox.Bottom), 1)
		if err != nil {
			continue
		}
		if peak.Value < r.MinTemp || peak.Value > r.MaxTemp {
			continue
		}
		c.peak = peak
		kept = append(kept, c)
		working.ZeroBox(c.thermalBox.Left, c.thermalBox.Top, c.thermalBox.Right, c.thermalBox.Bottom)
	}

	// Re-queried peaks can drop below later candidates, so restore the
	// descending order before reporting.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].peak.Value > kept[j].peak.Value
	})
	return r.records(kept), r.layoutRecords(kept), nil
}

// collect maps all components concurrently, queries their peaks, and
// returns the in-window candidates sorted hottest first. Components
// whose footprint maps entirely outside the matrix are skipped.
func (r *Resolver) collect() ([]*candidate, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{Geometry: r.Geometry, Transform: r.Transform}
	width, height := r.Matrix.Width(), r.Matrix.Height()

	results := make([]*candidate, len(r.Components))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < queryWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				comp := r.Components[i]
				box := p.ComponentToThermal(comp, width, height)
				peak, err := r.Matrix.MaxInBox(
					float64(box.Left), float64(box.Top),
					float64(box.Right), float64(box.Bottom), 1)
				if err != nil {
					continue
				}
				results[i] = &candidate{
					component:  comp,
					thermalBox: box,
					layoutRect: p.ComponentToLayout(comp),
					peak:       peak,
				}
			}
		}()
	}
	for i := range r.Components {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var candidates []*candidate
	for _, c := range results {
		if c == nil {
			continue
		}
		if c.peak.Value < r.MinTemp || c.peak.Value > r.MaxTemp {
			continue
		}
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].peak.Value > candidates[j].peak.Value
	})
	return candidates, nil
}

func (r *Resolver) records(candidates []*candidate) []Record {
	recs := make([]Record, len(candidates))
	for i, c := range candidates {
		recs[i] = Record{
			RefDes:      c.component.RefDes,
			Description: c.component.Description,
			X1:          c.thermalBox.Left,
			Y1:          c.thermalBox.Top,
			X2:          c.thermalBox.Right,
			Y2:          c.thermalBox.Bottom,
			CX:          c.peak.X,
			CY:          c.peak.Y,
			MaxTemp:     c.peak.Value,
		}
	}
	return recs
}

// layoutRecords expresses the same candidates in layout image pixels,
// mapping each thermal peak location through the forward transform.
func (r *Resolver) layoutRecords(candidates []*candidate) []Record {
	recs := make([]Record, len(candidates))
	for i, c := range candidates {
		peak := r.Transform.Apply(geometry.Point2D{X: float64(c.peak.X), Y: float64(c.peak.Y)})
		recs[i] = Record{
			RefDes:      c.component.RefDes,
			Description: c.component.Description,
			X1:          int(math.Round(c.layoutRect.X)),
			Y1:          int(math.Round(c.layoutRect.Y)),
			X2:          int(math.Round(c.layoutRect.X + c.layoutRect.Width)),
			Y2:          int(math.Round(c.layoutRect.Y + c.layoutRect.Height)),
			CX:          int(math.Round(peak.X)),
			CY:          int(math.Round(peak.Y)),
			MaxTemp:     c.peak.Value,
		}
	}
	return recs
}
