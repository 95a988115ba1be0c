package world

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GmapDir is a GMAP grid direction, distinct from a player's facing
// Direction.
type GmapDir int

const (
	North GmapDir = iota
	South
	East
	West
)

// PrefetchTimeout is how long a requested segment stays "pending" before it
// may be re-requested.
const PrefetchTimeout = 30 * time.Second

// SegmentCoord is a GMAP grid cell.
type SegmentCoord struct {
	Col, Row int
}

// ParseSegmentName splits a segment level name of the form
// "<base>-<col><row>.nw" into its base, column, and row. col is
// a lower-case letter starting at 'a' = 0; row is a (possibly multi-digit)
// decimal integer. ok is false if name does not match this shape (a plain,
// non-GMAP level name).
func ParseSegmentName(name string) (base string, col, row int, ok bool) {
	trimmed := strings.TrimSuffix(name, ".nw")
	dash := strings.LastIndexByte(trimmed, '-')
	if dash < 0 || dash+1 >= len(trimmed) {
		return "", 0, 0, false
	}
	base, suffix := trimmed[:dash], trimmed[dash+1:]

	c := suffix[0]
	if c < 'a' || c > 'z' {
		return "", 0, 0, false
	}
	rowStr := suffix[1:]
	if rowStr == "" {
		return "", 0, 0, false
	}
	r, err := strconv.Atoi(rowStr)
	if err != nil {
		return "", 0, 0, false
	}
	return base, int(c - 'a'), r, true
}

// SegmentName builds a segment level name from its base and grid cell, the
// inverse of ParseSegmentName.
func SegmentName(base string, col, row int) string {
	return fmt.Sprintf("%s-%c%d.nw", base, 'a'+byte(col), row)
}

// GMap is the client-side global-map engine: segment naming, the directed
// adjacency graph, prefetch bookkeeping, and local↔world coordinate
// conversion.
type GMap struct {
	Name          string
	Width, Height int

	// segments maps a grid cell to the segment level name occupying it.
	segments map[SegmentCoord]string

	// adjacency is a directed map, not name arithmetic, so an unusual
	// neighbor listed in the server's gmap file always wins.
	adjacency map[string]map[GmapDir]string

	Active string

	pending map[string]time.Time
	loaded  map[string]bool
}

// NewGMap returns an empty GMap engine for a grid of size w×h segments.
func NewGMap(name string, w, h int) *GMap {
	return &GMap{
		Name:      name,
		Width:     w,
		Height:    h,
		segments:  make(map[SegmentCoord]string),
		adjacency: make(map[string]map[GmapDir]string),
		pending:   make(map[string]time.Time),
		loaded:    make(map[string]bool),
	}
}

var gmapOpposite = map[GmapDir]GmapDir{North: South, South: North, East: West, West: East}
var gmapOffset = map[GmapDir]SegmentCoord{
	North: {Col: 0, Row: -1},
	South: {Col: 0, Row: 1},
	East:  {Col: 1, Row: 0},
	West:  {Col: -1, Row: 0},
}

// RecordSegment records name as occupying grid cell (col, row) and derives
// adjacency to any already-known neighboring cells. Derived entries never override an existing
// explicit entry set by SetAdjacency, so a gmap file parsed later still
// wins.
func (g *GMap) RecordSegment(name string, col, row int) {
	cell := SegmentCoord{Col: col, Row: row}
	g.segments[cell] = name
	if g.adjacency[name] == nil {
		g.adjacency[name] = make(map[GmapDir]string)
	}

	for dir, off := range gmapOffset {
		neighborCell := SegmentCoord{Col: col + off.Col, Row: row + off.Row}
		neighborName, ok := g.segments[neighborCell]
		if !ok {
			continue
		}
		if _, set := g.adjacency[name][dir]; !set {
			g.adjacency[name][dir] = neighborName
		}
		if g.adjacency[neighborName] == nil {
			g.adjacency[neighborName] = make(map[GmapDir]string)
		}
		if _, set := g.adjacency[neighborName][gmapOpposite[dir]]; !set {
			g.adjacency[neighborName][gmapOpposite[dir]] = name
		}
	}
}

// SetAdjacency sets an explicit directed neighbor override for level in
// direction dir, taking precedence over RecordSegment's grid-derived guess.
func (g *GMap) SetAdjacency(level string, dir GmapDir, neighbor string) {
	if g.adjacency[level] == nil {
		g.adjacency[level] = make(map[GmapDir]string)
	}
	g.adjacency[level][dir] = neighbor
}

// Neighbor returns the adjacent segment name in direction dir from level,
// and whether one is known.
func (g *GMap) Neighbor(level string, dir GmapDir) (string, bool) {
	n, ok := g.adjacency[level][dir]
	return n, ok
}

// PrefetchWindow returns the not-yet-loaded segment names in the 3×3 window
// centered on the grid cell occupied by level, clipped to the grid bounds.
func (g *GMap) PrefetchWindow(level string) []string {
	var center SegmentCoord
	found := false
	for cell, name := range g.segments {
		if name == level {
			center, found = cell, true
			break
		}
	}
	if !found {
		return nil
	}

	var out []string
	for dc := -1; dc <= 1; dc++ {
		for dr := -1; dr <= 1; dr++ {
			col, row := center.Col+dc, center.Row+dr
			if col < 0 || col >= g.Width || row < 0 || row >= g.Height {
				continue
			}
			name, ok := g.segments[SegmentCoord{Col: col, Row: row}]
			if !ok || g.loaded[name] {
				continue
			}
			out = append(out, name)
		}
	}
	return out
}

// MarkRequested records name as pending-prefetch as of now.
func (g *GMap) MarkRequested(name string, now time.Time) {
	g.pending[name] = now
}

// MarkLoaded records name as loaded and clears any pending-prefetch entry.
func (g *GMap) MarkLoaded(name string) {
	g.loaded[name] = true
	delete(g.pending, name)
}

// NeedsRequest reports whether name is neither loaded nor still within its
// pending-prefetch timeout as of now, i.e. it is eligible for a fresh
// file-request action.
func (g *GMap) NeedsRequest(name string, now time.Time) bool {
	if g.loaded[name] {
		return false
	}
	requestedAt, ok := g.pending[name]
	if !ok {
		return true
	}
	return now.Sub(requestedAt) >= PrefetchTimeout
}

// LocalToWorld converts a segment-local position at grid cell (col, row)
// into world coordinates.
func LocalToWorld(localX, localY float64, col, row int) (worldX, worldY float64) {
	return float64(col)*64 + localX, float64(row)*64 + localY
}

// WorldToLocal converts a world position into its owning segment's local
// coordinates and grid cell.
func WorldToLocal(worldX, worldY float64) (localX, localY float64, col, row int) {
	col = int(worldX) / 64
	row = int(worldY) / 64
	return worldX - float64(col)*64, worldY - float64(row)*64, col, row
}

// Crossing describes the outcome of a boundary-crossing check.
type Crossing struct {
	Dir         GmapDir
	TargetLevel string
	Loaded      bool
	LocalX      float64
	LocalY      float64
	Blocked     bool
}

// CheckBoundary inspects a proposed local position (x, y) against the
// segment bounds and, if it crosses an edge, resolves the target segment
// via the adjacency map and computes the wrapped local coordinates. It does not mutate engine state; callers apply the result.
func (g *GMap) CheckBoundary(currentLevel string, x, y float64) (Crossing, bool) {
	var dir GmapDir
	switch {
	case x < 0:
		dir = West
	case x >= 64:
		dir = East
	case y < 0:
		dir = North
	case y >= 64:
		dir = South
	default:
		return Crossing{}, false
	}

	target, ok := g.Neighbor(currentLevel, dir)
	if !ok {
		return Crossing{Dir: dir, Blocked: true}, true
	}

	wrappedX, wrappedY := x, y
	switch dir {
	case West:
		wrappedX = 64 + x // x is negative here, e.g. -0.5 -> 63.5
	case East:
		wrappedX = x - 64
	case North:
		wrappedY = 64 + y
	case South:
		wrappedY = y - 64
	}

	return Crossing{
		Dir:         dir,
		TargetLevel: target,
		Loaded:      g.loaded[target],
		LocalX:      wrappedX,
		LocalY:      wrappedY,
	}, true
}
