package clip

import (
	"fmt"
	"sort"
)

// Problem describes one invariant violation found in a clip set.
type Problem struct {
	ClipID  int64  `json:"clip_id"`
	TrackID int64  `json:"track_id"`
	Message string `json:"message"`
}

// CheckResult contains the results of auditing a clip set.
type CheckResult struct {
	Valid    bool      `json:"valid"`
	Problems []Problem `json:"problems,omitempty"`
}

// Check audits a clip set against the timeline invariants: strictly
// positive track durations, source windows inside [0, sourceDuration],
// and no overlapping [start, end) ranges on the same track. The engine
// maintains these after every placement; Check exists for status
// reporting and for tests that assert the engine kept its promise.
func Check(clips []Clip) *CheckResult {
	result := &CheckResult{Valid: true}

	add := func(c Clip, msg string) {
		result.Valid = false
		result.Problems = append(result.Problems, Problem{
			ClipID:  c.ID,
			TrackID: c.TrackID,
			Message: msg,
		})
	}

	byTrack := make(map[int64][]Clip)
	for _, c := range clips {
		if c.EndOnTrackMs <= c.StartOnTrackMs {
			add(c, fmt.Sprintf("track range [%d, %d) is not strictly positive", c.StartOnTrackMs, c.EndOnTrackMs))
		}
		if c.StartInSourceMs < 0 {
			add(c, fmt.Sprintf("source start %d is negative", c.StartInSourceMs))
		}
		if c.EndInSourceMs < c.StartInSourceMs {
			add(c, fmt.Sprintf("source window [%d, %d) is inverted", c.StartInSourceMs, c.EndInSourceMs))
		}
		if c.EndInSourceMs > c.SourceDurationMs {
			add(c, fmt.Sprintf("source end %d exceeds source duration %d", c.EndInSourceMs, c.SourceDurationMs))
		}
		byTrack[c.TrackID] = append(byTrack[c.TrackID], c)
	}

	// Overlap scan per track: sort by start, compare adjacent ranges.
	for _, trackClips := range byTrack {
		sort.Slice(trackClips, func(i, j int) bool {
			return trackClips[i].StartOnTrackMs < trackClips[j].StartOnTrackMs
		})
		for i := 1; i < len(trackClips); i++ {
			prev, cur := trackClips[i-1], trackClips[i]
			if cur.StartOnTrackMs < prev.EndOnTrackMs {
				add(cur, fmt.Sprintf("overlaps clip %d: [%d, %d) intersects [%d, %d)",
					prev.ID, cur.StartOnTrackMs, cur.EndOnTrackMs, prev.StartOnTrackMs, prev.EndOnTrackMs))
			}
		}
	}

	return result
}
