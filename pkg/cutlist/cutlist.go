// Package cutlist reads and writes declarative timeline seed files: YAML
// documents listing tracks and the clips on them. Clip times are given in
// milliseconds or, when the document declares a framerate, in frames;
// exports always write milliseconds. The package is self-contained: frame
// conversion is injected by the caller, and resolved entries are plain
// values for whatever placement machinery consumes them.
package cutlist

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Cutlist is the document root.
type Cutlist struct {
	// Framerate is the fps fraction frame-based times are interpreted
	// against ("30", "30000/1001", "29.97"). Optional when every time in
	// the document is in milliseconds.
	Framerate string  `yaml:"framerate,omitempty"`
	Tracks    []Track `yaml:"tracks"`
}

// Track is one lane and its clips, in document order.
type Track struct {
	Name  string `yaml:"name,omitempty"`
	Type  string `yaml:"type"`
	Clips []Clip `yaml:"clips,omitempty"`
}

// Clip is one placement. Exactly one of StartMs/StartFrame is required, and
// likewise for the end. The source window defaults to [0, end-start) and the
// source duration to the window end when the media length is not declared.
type Clip struct {
	Name             string `yaml:"name,omitempty"`
	Type             string `yaml:"type,omitempty"` // defaults to the track type
	Source           string `yaml:"source"`
	SourceDurationMs int64  `yaml:"source_duration_ms,omitempty"`

	StartMs    *int64 `yaml:"start_ms,omitempty"`
	EndMs      *int64 `yaml:"end_ms,omitempty"`
	StartFrame *int64 `yaml:"start_frame,omitempty"`
	EndFrame   *int64 `yaml:"end_frame,omitempty"`

	SourceStartMs *int64 `yaml:"source_start_ms,omitempty"`
	SourceEndMs   *int64 `yaml:"source_end_ms,omitempty"`

	Metadata string `yaml:"metadata,omitempty"`
}

// Entry is one resolved placement: all times in milliseconds, track
// identified by its index into the document's Tracks.
type Entry struct {
	TrackIndex       int
	Name             string
	Type             string
	SourcePath       string
	SourceDurationMs int64
	StartOnTrackMs   int64
	EndOnTrackMs     int64
	StartInSourceMs  int64
	EndInSourceMs    int64
	Metadata         string
}

// Parse decodes a cutlist document.
func Parse(data []byte) (*Cutlist, error) {
	if len(data) == 0 {
		return nil, errors.New("cutlist file is empty")
	}
	var c Cutlist
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if len(c.Tracks) == 0 {
		return nil, errors.New("cutlist has no tracks")
	}
	return &c, nil
}

// Load reads and parses a cutlist file.
func Load(path string) (*Cutlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Marshal serializes a cutlist document.
func Marshal(c *Cutlist) ([]byte, error) {
	return yaml.Marshal(c)
}

// Resolve flattens the document into placement entries. frameToMs converts
// a frame index to milliseconds and may be nil when no clip uses frame
// times. Clips that fail validation are skipped but do not stop resolution:
// the returned entries are every clip that resolved, and the error (a
// ValidationErrors when non-nil) lists every problem found.
func (c *Cutlist) Resolve(frameToMs func(int64) int64) ([]Entry, error) {
	var (
		entries []Entry
		errs    ValidationErrors
	)

	for ti, track := range c.Tracks {
		trackPath := fmt.Sprintf("tracks[%d]", ti)
		if track.Type == "" {
			errs = append(errs, ValidationError{
				Path:    trackPath + ".type",
				Message: "track type is required",
			})
		}

		for ci, cl := range track.Clips {
			path := fmt.Sprintf("%s.clips[%d]", trackPath, ci)
			entry, clipErrs := resolveClip(cl, ti, track.Type, path, frameToMs)
			if len(clipErrs) > 0 {
				errs = append(errs, clipErrs...)
				continue
			}
			entries = append(entries, entry)
		}
	}

	if len(errs) > 0 {
		return entries, errs
	}
	return entries, nil
}

func resolveClip(cl Clip, trackIndex int, trackType, path string, frameToMs func(int64) int64) (Entry, []ValidationError) {
	var errs []ValidationError
	fail := func(field, message string) {
		errs = append(errs, ValidationError{Path: path + "." + field, Message: message})
	}

	if cl.Source == "" {
		fail("source", "source is required")
	}

	clipType := cl.Type
	if clipType == "" {
		clipType = trackType
	}
	if clipType == "" {
		fail("type", "clip type is required when the track has none")
	}

	startMs, ok := resolveTime(cl.StartMs, cl.StartFrame, "start", frameToMs, fail)
	if !ok {
		return Entry{}, errs
	}
	endMs, ok := resolveTime(cl.EndMs, cl.EndFrame, "end", frameToMs, fail)
	if !ok {
		return Entry{}, errs
	}
	if endMs <= startMs {
		fail("end_ms", fmt.Sprintf("end (%dms) must be after start (%dms)", endMs, startMs))
	}

	srcStart := int64(0)
	if cl.SourceStartMs != nil {
		srcStart = *cl.SourceStartMs
	}
	if srcStart < 0 {
		fail("source_start_ms", "source start must not be negative")
	}
	srcEnd := srcStart + (endMs - startMs)
	if cl.SourceEndMs != nil {
		srcEnd = *cl.SourceEndMs
	}
	if srcEnd < srcStart {
		fail("source_end_ms", "source end must not precede source start")
	}

	// An undeclared media length would otherwise clamp the window to
	// nothing downstream.
	srcDuration := cl.SourceDurationMs
	if srcDuration <= 0 {
		srcDuration = srcEnd
	}

	if len(errs) > 0 {
		return Entry{}, errs
	}

	return Entry{
		TrackIndex:       trackIndex,
		Name:             cl.Name,
		Type:             clipType,
		SourcePath:       cl.Source,
		SourceDurationMs: srcDuration,
		StartOnTrackMs:   startMs,
		EndOnTrackMs:     endMs,
		StartInSourceMs:  srcStart,
		EndInSourceMs:    srcEnd,
		Metadata:         cl.Metadata,
	}, errs
}

// resolveTime picks one boundary from its ms/frame pair.
func resolveTime(ms, frame *int64, name string, frameToMs func(int64) int64, fail func(field, message string)) (int64, bool) {
	switch {
	case ms != nil && frame != nil:
		fail(name+"_ms", fmt.Sprintf("give %s_ms or %s_frame, not both", name, name))
		return 0, false
	case ms != nil:
		if *ms < 0 {
			fail(name+"_ms", "time must not be negative")
			return 0, false
		}
		return *ms, true
	case frame != nil:
		if frameToMs == nil {
			fail(name+"_frame", "frame times require a framerate")
			return 0, false
		}
		if *frame < 0 {
			fail(name+"_frame", "frame must not be negative")
			return 0, false
		}
		return frameToMs(*frame), true
	default:
		fail(name+"_ms", name+" time is required")
		return 0, false
	}
}
