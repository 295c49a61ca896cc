// Package geoindex keeps facilities in an R-tree for radius queries.
//
// The tree stores points in (lat, lon) degree space. Queries first collect
// candidates from a bounding box wide enough to contain the search circle and
// then keep only the facilities whose Haversine distance is within the radius,
// so results are exact even though the tree itself is planar.
package geoindex

import (
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/services"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50
	tolerance   = 1e-9

	earthRadiusKm = 6371.0
	kmPerDegree   = earthRadiusKm * math.Pi / 180
)

// facilityItem wraps a Facility for R-tree indexing. seq records insertion
// order so that equidistant facilities come back in the order they were indexed.
type facilityItem struct {
	facility domain.Facility
	seq      int
	rect     rtreego.Rect
}

func (fi *facilityItem) Bounds() rtreego.Rect {
	return fi.rect
}

// FacilityIndex is a thread-safe R-tree over facility locations.
type FacilityIndex struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
	ids  map[string]struct{}
	next int
}

func NewFacilityIndex() *FacilityIndex {
	return &FacilityIndex{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
		ids:  make(map[string]struct{}),
	}
}

// insert adds f unless its ID is already indexed. Callers hold the write lock.
func insert(tree *rtreego.Rtree, ids map[string]struct{}, f domain.Facility, seq int) bool {
	if _, dup := ids[f.ID]; dup {
		return false
	}
	ids[f.ID] = struct{}{}

	p := rtreego.Point{f.Location.Lat, f.Location.Lon}
	tree.Insert(&facilityItem{facility: f, seq: seq, rect: p.ToRect(tolerance)})
	return true
}

// Index adds facilities to the tree. Facilities with invalid coordinates are
// rejected before anything is inserted. An ID that is already indexed is
// skipped, so Index only appends; use Replace to refresh changed facilities.
func (x *FacilityIndex) Index(facilities []domain.Facility) error {
	for _, f := range facilities {
		if err := f.Location.Validate(); err != nil {
			return fmt.Errorf("index facilities: facility %q: %w", f.ID, err)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	for _, f := range facilities {
		if insert(x.tree, x.ids, f, x.next) {
			x.next++
		}
	}

	return nil
}

// Within returns the facilities whose great-circle distance from center is at
// most radiusKm, nearest first.
func (x *FacilityIndex) Within(center domain.Coordinate, radiusKm float64) ([]domain.NearestFacility, error) {
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("search radius: center: %w", err)
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return nil, domain.NewValidationError("radius_km", "must be a non-negative number")
	}

	boxes, err := searchBoxes(center, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("search radius: %w", err)
	}

	x.mu.RLock()
	seen := make(map[int]struct{})
	items := make([]*facilityItem, 0)
	for _, box := range boxes {
		for _, s := range x.tree.SearchIntersect(box) {
			item, ok := s.(*facilityItem)
			if !ok {
				continue
			}
			if _, dup := seen[item.seq]; dup {
				continue
			}
			seen[item.seq] = struct{}{}
			items = append(items, item)
		}
	}
	x.mu.RUnlock()

	// Restore insertion order so the stable ranking below is deterministic.
	slices.SortFunc(items, func(a, b *facilityItem) int { return a.seq - b.seq })

	candidates := make([]domain.Facility, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, item.facility)
	}

	ranked := services.RankFacilities(center, candidates)
	cut := len(ranked)
	for i, r := range ranked {
		if r.DistanceKm > radiusKm {
			cut = i
			break
		}
	}

	return ranked[:cut], nil
}

// Size returns the number of indexed facilities.
func (x *FacilityIndex) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.tree.Size()
}

// Clear removes every facility from the index.
func (x *FacilityIndex) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.tree = rtreego.NewTree(dimensions, minChildren, maxChildren)
	x.ids = make(map[string]struct{})
	x.next = 0
}

// Replace swaps the indexed set for facilities in one step; concurrent
// readers see either the old set or the new one.
func (x *FacilityIndex) Replace(facilities []domain.Facility) error {
	for _, f := range facilities {
		if err := f.Location.Validate(); err != nil {
			return fmt.Errorf("replace facilities: facility %q: %w", f.ID, err)
		}
	}

	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	ids := make(map[string]struct{}, len(facilities))
	next := 0
	for _, f := range facilities {
		if insert(tree, ids, f, next) {
			next++
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.tree = tree
	x.ids = ids
	x.next = next

	return nil
}

// searchBoxes returns one or two rectangles covering every point within
// radiusKm of center. Longitude spans widen with latitude, and a span that
// crosses the antimeridian is split in two.
func searchBoxes(center domain.Coordinate, radiusKm float64) ([]rtreego.Rect, error) {
	latDeg := radiusKm / kmPerDegree
	minLat := math.Max(-90, center.Lat-latDeg)
	maxLat := math.Min(90, center.Lat+latDeg)

	// Longitude half-width of a spherical cap; near a pole (or for huge radii)
	// the cap covers every longitude.
	lonDeg := 180.0
	delta := radiusKm / earthRadiusKm
	if minLat > -90 && maxLat < 90 && delta < math.Pi/2 {
		if s := math.Sin(delta) / math.Cos(center.Lat*math.Pi/180); s < 1 {
			lonDeg = math.Asin(s)*180/math.Pi + 1e-6
		}
	}

	if lonDeg >= 180 {
		box, err := newBox(minLat, -180, maxLat, 180)
		if err != nil {
			return nil, err
		}
		return []rtreego.Rect{box}, nil
	}

	minLon := center.Lon - lonDeg
	maxLon := center.Lon + lonDeg

	switch {
	case minLon < -180:
		west, err := newBox(minLat, minLon+360, maxLat, 180)
		if err != nil {
			return nil, err
		}
		east, err := newBox(minLat, -180, maxLat, maxLon)
		if err != nil {
			return nil, err
		}
		return []rtreego.Rect{west, east}, nil
	case maxLon > 180:
		east, err := newBox(minLat, minLon, maxLat, 180)
		if err != nil {
			return nil, err
		}
		west, err := newBox(minLat, -180, maxLat, maxLon-360)
		if err != nil {
			return nil, err
		}
		return []rtreego.Rect{east, west}, nil
	}

	box, err := newBox(minLat, minLon, maxLat, maxLon)
	if err != nil {
		return nil, err
	}
	return []rtreego.Rect{box}, nil
}

// newBox builds a rectangle from its corners. rtreego rejects zero-length
// sides, so degenerate spans are padded by the index tolerance.
func newBox(minLat, minLon, maxLat, maxLon float64) (rtreego.Rect, error) {
	latLen := math.Max(maxLat-minLat, tolerance)
	lonLen := math.Max(maxLon-minLon, tolerance)

	rect, err := rtreego.NewRect(rtreego.Point{minLat - tolerance, minLon - tolerance}, []float64{latLen + 2*tolerance, lonLen + 2*tolerance})
	if err != nil {
		return rtreego.Rect{}, fmt.Errorf("invalid search box: %w", err)
	}
	return rect, nil
}
