package timeline

import "montage/internal/clip"

// OverlapAction says what the placement engine does to a neighbor that
// intersects an incoming clip's range.
type OverlapAction int

const (
	// OverlapNone: ranges do not intersect; neighbor untouched.
	OverlapNone OverlapAction = iota

	// OverlapRemove: neighbor fully covered by the new range; deleted.
	OverlapRemove

	// OverlapTrimEnd: neighbor sticks out to the left; its end is trimmed
	// back to the new clip's start.
	OverlapTrimEnd

	// OverlapTrimStart: neighbor sticks out to the right; its start is
	// pushed forward to the new clip's end.
	OverlapTrimStart
)

func (a OverlapAction) String() string {
	switch a {
	case OverlapNone:
		return "none"
	case OverlapRemove:
		return "remove"
	case OverlapTrimEnd:
		return "trim_end"
	case OverlapTrimStart:
		return "trim_start"
	default:
		return "unknown"
	}
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Every overlap decision in this package goes
// through this one predicate so hit-testing and placement cannot disagree.
func Overlaps(aStart, aEnd, bStart, bEnd int64) bool {
	return aStart < bEnd && aEnd > bStart
}

// ClassifyOverlap decides how a neighbor at [neighborStart, neighborEnd)
// is resolved against a new clip at [newStart, newEnd). Precedence:
//
//  1. Fully covered neighbors are removed.
//  2. A neighbor hanging over the new clip's start keeps its head
//     (end trimmed).
//  3. A neighbor hanging over the new clip's end keeps its tail
//     (start trimmed).
//  4. A neighbor that fully contains the new clip is trimmed at its end,
//     the same as case 2. Splitting it into two fragments would be the
//     lossless resolution; SplitAt exists for callers who want that, but
//     automatic placement keeps the historical trim behavior.
func ClassifyOverlap(neighborStart, neighborEnd, newStart, newEnd int64) OverlapAction {
	if !Overlaps(neighborStart, neighborEnd, newStart, newEnd) {
		return OverlapNone
	}
	if neighborStart >= newStart && neighborEnd <= newEnd {
		return OverlapRemove
	}
	if neighborStart < newStart && neighborEnd <= newEnd {
		return OverlapTrimEnd
	}
	if neighborStart >= newStart && neighborEnd > newEnd {
		return OverlapTrimStart
	}
	// Neighbor fully contains the new range.
	return OverlapTrimEnd
}

// Overlapping returns the clips on trackID whose [start, end) range
// intersects [startMs, endMs), optionally excluding one clip id
// (0 excludes nothing). Pure; the input is never mutated.
func Overlapping(clips []clip.Clip, trackID, startMs, endMs, excludeID int64) []clip.Clip {
	var out []clip.Clip
	for _, c := range clips {
		if c.TrackID != trackID {
			continue
		}
		if excludeID != 0 && c.ID == excludeID {
			continue
		}
		if Overlaps(c.StartOnTrackMs, c.EndOnTrackMs, startMs, endMs) {
			out = append(out, c)
		}
	}
	clip.SortByTrackStart(out)
	return out
}
