package ops

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"montage/internal/clip"
	"montage/internal/config"
	"montage/internal/db"
	"montage/internal/errors"
	"montage/pkg/cutlist"
)

// ExportCutlistInput contains parameters for the ExportCutlist operation.
type ExportCutlistInput struct {
	Path string // optional; defaults to a timestamped file under ~/.montage/exports
}

// ExportCutlistOutput contains the result of the ExportCutlist operation.
type ExportCutlistOutput struct {
	Path       string `json:"path"`
	Tracks     int    `json:"tracks"`
	Clips      int    `json:"clips"`
	ExportedAt string `json:"exported_at"`
}

// ExportCutlist writes the current timeline out as a YAML cutlist, all
// times in milliseconds. The file is written to a temp path and renamed
// into place so a failed export never leaves a truncated document behind.
func ExportCutlist(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportCutlistInput) (*ExportCutlistOutput, error) {
	now := time.Now().UTC()

	path := input.Path
	if path == "" {
		p, err := defaultExportPath(now)
		if err != nil {
			return nil, err
		}
		path = p
	}
	abs, err := validateCutlistPath(path)
	if err != nil {
		return nil, err
	}

	tracks, err := db.ListTracks(ctx, database)
	if err != nil {
		return nil, err
	}

	doc := cutlist.Cutlist{Framerate: cfg.DefaultFramerate}
	clipCount := 0
	for _, t := range tracks {
		clips, err := db.ClipsForTrack(ctx, database, t.ID)
		if err != nil {
			return nil, err
		}
		ct := cutlist.Track{Name: t.Name, Type: t.Type}
		for _, c := range clips {
			ct.Clips = append(ct.Clips, cutlist.Clip{
				Name:             c.Name,
				Type:             c.Type,
				Source:           c.SourcePath,
				SourceDurationMs: c.SourceDurationMs,
				StartMs:          clip.Int64(c.StartOnTrackMs),
				EndMs:            clip.Int64(c.EndOnTrackMs),
				SourceStartMs:    clip.Int64(c.StartInSourceMs),
				SourceEndMs:      clip.Int64(c.EndInSourceMs),
				Metadata:         c.Metadata,
			})
			clipCount++
		}
		doc.Tracks = append(doc.Tracks, ct)
	}

	data, err := cutlist.Marshal(&doc)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("create export directory: %w", err))
	}

	file, err := os.CreateTemp(dir, ".montage-export-*.tmp")
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("create temp file: %w", err))
	}
	tempPath := file.Name()

	// Clean up the temp file on any failure past this point.
	success := false
	defer func() {
		if !success {
			if file != nil {
				file.Close()
			}
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination.
	if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}
	if err := os.Rename(tempPath, abs); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("finalize export: %w", err))
	}

	success = true
	return &ExportCutlistOutput{
		Path:       abs,
		Tracks:     len(tracks),
		Clips:      clipCount,
		ExportedAt: now.Format(time.RFC3339),
	}, nil
}

// defaultExportPath generates the default export path.
// Format: ~/.montage/exports/timeline-<timestamp>.yaml
func defaultExportPath(now time.Time) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("resolve home directory: %w", err))
	}
	name := fmt.Sprintf("timeline-%s.yaml", now.Format("2006-01-02T150405"))
	return filepath.Join(homeDir, ".montage", "exports", name), nil
}
