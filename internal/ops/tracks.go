package ops

import (
	"context"
	"database/sql"
	"strings"

	"montage/internal/db"
	"montage/internal/errors"
)

// AddTrackInput contains parameters for the AddTrack operation.
type AddTrackInput struct {
	Name     string
	Type     string // "video" or "audio"
	Position *int64 // nil appends after the existing tracks
}

// AddTrackOutput contains the result of the AddTrack operation.
type AddTrackOutput struct {
	Track db.Track `json:"track"`
}

// AddTrack creates a new lane. Tracks frame the timeline rather than edit
// it, so track changes are not recorded in the undo history.
func AddTrack(ctx context.Context, database *sql.DB, input AddTrackInput) (*AddTrackOutput, error) {
	trackType := strings.TrimSpace(input.Type)
	if trackType == "" {
		trackType = "video"
	}
	if err := validateTrackType(trackType); err != nil {
		return nil, err
	}

	var position int64
	if input.Position != nil {
		if *input.Position < 0 {
			return nil, errors.NewInvalidRequest("position must be >= 0")
		}
		position = *input.Position
	} else {
		count, err := db.CountTracks(ctx, database)
		if err != nil {
			return nil, err
		}
		position = int64(count)
	}

	track := db.Track{
		Name:     strings.TrimSpace(input.Name),
		Type:     trackType,
		Position: position,
	}
	if err := db.InsertTrack(ctx, database, &track); err != nil {
		return nil, err
	}

	return &AddTrackOutput{Track: track}, nil
}

// ListTracksOutput contains the result of the ListTracks operation.
type ListTracksOutput struct {
	Tracks []db.Track `json:"tracks"`
	Count  int        `json:"count"`
}

// ListTracks returns every track in position order.
func ListTracks(ctx context.Context, database *sql.DB) (*ListTracksOutput, error) {
	tracks, err := db.ListTracks(ctx, database)
	if err != nil {
		return nil, err
	}
	if tracks == nil {
		tracks = []db.Track{}
	}
	return &ListTracksOutput{Tracks: tracks, Count: len(tracks)}, nil
}

// DeleteTrackInput contains parameters for the DeleteTrack operation.
type DeleteTrackInput struct {
	TrackID int64
}

// DeleteTrackOutput contains the result of the DeleteTrack operation.
type DeleteTrackOutput struct {
	Deleted bool  `json:"deleted"`
	TrackID int64 `json:"track_id"`
}

// DeleteTrack removes an empty track. A track that still has clips is
// refused so history entries referring to them keep resolving.
func DeleteTrack(ctx context.Context, database *sql.DB, input DeleteTrackInput) (*DeleteTrackOutput, error) {
	if input.TrackID <= 0 {
		return nil, errors.NewInvalidRequest("track_id is required")
	}
	if err := db.DeleteTrack(ctx, database, input.TrackID); err != nil {
		return nil, err
	}
	return &DeleteTrackOutput{Deleted: true, TrackID: input.TrackID}, nil
}
