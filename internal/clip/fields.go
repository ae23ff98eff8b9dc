package clip

// Fields is a partial update: nil pointers leave the corresponding Clip
// field unchanged. It is the typed replacement for free-form field maps,
// so every reader and writer of a change payload is checked at compile time.
type Fields struct {
	TrackID          *int64            `json:"track_id,omitempty"`
	Name             *string           `json:"name,omitempty"`
	Type             *string           `json:"type,omitempty"`
	SourcePath       *string           `json:"source_path,omitempty"`
	SourceDurationMs *int64            `json:"source_duration_ms,omitempty"`
	StartInSourceMs  *int64            `json:"start_time_in_source_ms,omitempty"`
	EndInSourceMs    *int64            `json:"end_time_in_source_ms,omitempty"`
	StartOnTrackMs   *int64            `json:"start_time_on_track_ms,omitempty"`
	EndOnTrackMs     *int64            `json:"end_time_on_track_ms,omitempty"`
	Preview          *PreviewTransform `json:"preview,omitempty"`
	Metadata         *string           `json:"metadata,omitempty"`
}

// Apply writes the set fields onto c.
func (f Fields) Apply(c *Clip) {
	if f.TrackID != nil {
		c.TrackID = *f.TrackID
	}
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Type != nil {
		c.Type = *f.Type
	}
	if f.SourcePath != nil {
		c.SourcePath = *f.SourcePath
	}
	if f.SourceDurationMs != nil {
		c.SourceDurationMs = *f.SourceDurationMs
	}
	if f.StartInSourceMs != nil {
		c.StartInSourceMs = *f.StartInSourceMs
	}
	if f.EndInSourceMs != nil {
		c.EndInSourceMs = *f.EndInSourceMs
	}
	if f.StartOnTrackMs != nil {
		c.StartOnTrackMs = *f.StartOnTrackMs
	}
	if f.EndOnTrackMs != nil {
		c.EndOnTrackMs = *f.EndOnTrackMs
	}
	if f.Preview != nil {
		p := *f.Preview
		c.Preview = &p
	}
	if f.Metadata != nil {
		c.Metadata = *f.Metadata
	}
}

// Merge combines two partial updates; fields set in overlay win.
// Queued updates against the same clip collapse into one write this way.
func (f Fields) Merge(overlay Fields) Fields {
	out := f
	if overlay.TrackID != nil {
		out.TrackID = overlay.TrackID
	}
	if overlay.Name != nil {
		out.Name = overlay.Name
	}
	if overlay.Type != nil {
		out.Type = overlay.Type
	}
	if overlay.SourcePath != nil {
		out.SourcePath = overlay.SourcePath
	}
	if overlay.SourceDurationMs != nil {
		out.SourceDurationMs = overlay.SourceDurationMs
	}
	if overlay.StartInSourceMs != nil {
		out.StartInSourceMs = overlay.StartInSourceMs
	}
	if overlay.EndInSourceMs != nil {
		out.EndInSourceMs = overlay.EndInSourceMs
	}
	if overlay.StartOnTrackMs != nil {
		out.StartOnTrackMs = overlay.StartOnTrackMs
	}
	if overlay.EndOnTrackMs != nil {
		out.EndOnTrackMs = overlay.EndOnTrackMs
	}
	if overlay.Preview != nil {
		out.Preview = overlay.Preview
	}
	if overlay.Metadata != nil {
		out.Metadata = overlay.Metadata
	}
	return out
}

// Before returns a Fields with the same keys set as f, but carrying the
// values c currently holds. This is how undo snapshots are captured: only
// the fields an update touches are recorded.
func (f Fields) Before(c Clip) Fields {
	var out Fields
	if f.TrackID != nil {
		v := c.TrackID
		out.TrackID = &v
	}
	if f.Name != nil {
		v := c.Name
		out.Name = &v
	}
	if f.Type != nil {
		v := c.Type
		out.Type = &v
	}
	if f.SourcePath != nil {
		v := c.SourcePath
		out.SourcePath = &v
	}
	if f.SourceDurationMs != nil {
		v := c.SourceDurationMs
		out.SourceDurationMs = &v
	}
	if f.StartInSourceMs != nil {
		v := c.StartInSourceMs
		out.StartInSourceMs = &v
	}
	if f.EndInSourceMs != nil {
		v := c.EndInSourceMs
		out.EndInSourceMs = &v
	}
	if f.StartOnTrackMs != nil {
		v := c.StartOnTrackMs
		out.StartOnTrackMs = &v
	}
	if f.EndOnTrackMs != nil {
		v := c.EndOnTrackMs
		out.EndOnTrackMs = &v
	}
	if f.Preview != nil {
		if c.Preview != nil {
			p := *c.Preview
			out.Preview = &p
		} else {
			out.Preview = &PreviewTransform{}
		}
	}
	if f.Metadata != nil {
		v := c.Metadata
		out.Metadata = &v
	}
	return out
}

// IsZero reports whether no fields are set.
func (f Fields) IsZero() bool {
	return f.TrackID == nil &&
		f.Name == nil &&
		f.Type == nil &&
		f.SourcePath == nil &&
		f.SourceDurationMs == nil &&
		f.StartInSourceMs == nil &&
		f.EndInSourceMs == nil &&
		f.StartOnTrackMs == nil &&
		f.EndOnTrackMs == nil &&
		f.Preview == nil &&
		f.Metadata == nil
}

// Int64 returns a pointer to v, for building Fields literals.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v, for building Fields literals.
func String(v string) *string { return &v }
