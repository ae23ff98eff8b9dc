package clip

import "sort"

// Clip represents one media segment placed on one track. Track times and
// source times are independent ranges: the engine trims them together but
// never rescales (no speed/retiming).
type Clip struct {
	// ID is the database row id; 0 means the clip has not been persisted yet
	ID int64 `json:"id,omitempty"`

	// TrackID is the lane this clip sits on
	TrackID int64 `json:"track_id"`

	// Name is a display label, not an identity
	Name string `json:"name,omitempty"`

	// Type is the media kind: "video", "audio", or "image"
	Type string `json:"type,omitempty"`

	// SourcePath locates the underlying media file
	SourcePath string `json:"source_path"`

	// SourceDurationMs is the full duration of the underlying media
	SourceDurationMs int64 `json:"source_duration_ms"`

	// StartInSourceMs/EndInSourceMs bound the window of source media shown
	StartInSourceMs int64 `json:"start_time_in_source_ms"`
	EndInSourceMs   int64 `json:"end_time_in_source_ms"`

	// StartOnTrackMs/EndOnTrackMs bound the clip's placement on the track
	// as a half-open interval [start, end)
	StartOnTrackMs int64 `json:"start_time_on_track_ms"`
	EndOnTrackMs   int64 `json:"end_time_on_track_ms"`

	// Preview is presentation metadata (position, size, flips). Opaque to
	// the placement engine; carried through unmodified.
	Preview *PreviewTransform `json:"preview,omitempty"`

	// Metadata is an opaque payload owned by callers
	Metadata string `json:"metadata,omitempty"`
}

// PreviewTransform describes how a clip is presented in the preview pane.
type PreviewTransform struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	FlipH  bool    `json:"flip_h,omitempty"`
	FlipV  bool    `json:"flip_v,omitempty"`
}

// IsZero reports whether the transform is the zero value. A 0x0 box at the
// origin renders nothing, so storage treats it the same as no transform;
// undoing the first preview assignment restores "absent" through this.
func (p PreviewTransform) IsZero() bool {
	return p == PreviewTransform{}
}

// TrackDurationMs returns the length of the clip's on-track range.
func (c Clip) TrackDurationMs() int64 {
	return c.EndOnTrackMs - c.StartOnTrackMs
}

// SourceWindowMs returns the length of the clip's source window.
func (c Clip) SourceWindowMs() int64 {
	return c.EndInSourceMs - c.StartInSourceMs
}

// ClampTrackRange forces the on-track range to be at least minDurationMs
// long by pushing the end forward. minDurationMs values below 1 are treated
// as 1: a clip's track duration is always strictly positive.
func ClampTrackRange(startMs, endMs, minDurationMs int64) (int64, int64) {
	if minDurationMs < 1 {
		minDurationMs = 1
	}
	if endMs-startMs < minDurationMs {
		endMs = startMs + minDurationMs
	}
	return startMs, endMs
}

// ClampSourceWindow clamps a source window to [0, durationMs] with
// end >= start. Idempotent: clamping a clamped window changes nothing.
func ClampSourceWindow(startMs, endMs, durationMs int64) (int64, int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	if startMs < 0 {
		startMs = 0
	}
	if startMs > durationMs {
		startMs = durationMs
	}
	if endMs < startMs {
		endMs = startMs
	}
	if endMs > durationMs {
		endMs = durationMs
	}
	return startMs, endMs
}

// SortByTrackStart orders clips by track, then start time, then id.
// All engine results use this order so callers can render deterministically.
func SortByTrackStart(clips []Clip) {
	sort.SliceStable(clips, func(i, j int) bool {
		if clips[i].TrackID != clips[j].TrackID {
			return clips[i].TrackID < clips[j].TrackID
		}
		if clips[i].StartOnTrackMs != clips[j].StartOnTrackMs {
			return clips[i].StartOnTrackMs < clips[j].StartOnTrackMs
		}
		return clips[i].ID < clips[j].ID
	})
}

// IndexByID returns the index of the clip with the given id, or -1.
func IndexByID(clips []Clip, id int64) int {
	if id == 0 {
		return -1
	}
	for i := range clips {
		if clips[i].ID == id {
			return i
		}
	}
	return -1
}
