package ops

import (
	"testing"

	"montage/internal/errors"
)

func TestAddTrack_DefaultsAppendToTheEnd(t *testing.T) {
	env, ctx := newTestEnv(t)

	first, err := AddTrack(ctx, env.db, AddTrackInput{Name: "V1", Type: "video"})
	if err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	second, err := AddTrack(ctx, env.db, AddTrackInput{Name: "A1", Type: "audio"})
	if err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}

	if first.Track.ID == 0 || second.Track.ID == 0 {
		t.Fatal("tracks should have row ids")
	}
	if first.Track.Position != 0 || second.Track.Position != 1 {
		t.Errorf("positions = %d, %d; want 0, 1", first.Track.Position, second.Track.Position)
	}

	// Empty type defaults to video.
	third, err := AddTrack(ctx, env.db, AddTrackInput{Name: "untyped"})
	if err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	if third.Track.Type != "video" {
		t.Errorf("Type = %q, want video", third.Track.Type)
	}
}

func TestAddTrack_Validation(t *testing.T) {
	env, ctx := newTestEnv(t)

	if _, err := AddTrack(ctx, env.db, AddTrackInput{Type: "image"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("image lanes: err = %v, want INVALID_REQUEST", err)
	}
	neg := int64(-1)
	if _, err := AddTrack(ctx, env.db, AddTrackInput{Type: "video", Position: &neg}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("negative position: err = %v, want INVALID_REQUEST", err)
	}
}

func TestListTracks_PositionOrder(t *testing.T) {
	env, ctx := newTestEnv(t)
	pos := int64(5)
	if _, err := AddTrack(ctx, env.db, AddTrackInput{Name: "later", Type: "video", Position: &pos}); err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	env.addTrack(t, ctx, "audio") // defaults to position 1: one track exists

	out, err := ListTracks(ctx, env.db)
	if err != nil {
		t.Fatalf("ListTracks failed: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	if out.Tracks[0].Name != "test audio" || out.Tracks[1].Name != "later" {
		t.Errorf("order = %q, %q; want position order", out.Tracks[0].Name, out.Tracks[1].Name)
	}
}

func TestDeleteTrack_RefusesNonEmpty(t *testing.T) {
	env, ctx := newTestEnv(t)
	trackID := env.addTrack(t, ctx, "video")
	c := env.addClip(t, ctx, trackID, 0, 5000)

	if _, err := DeleteTrack(ctx, env.db, DeleteTrackInput{TrackID: trackID}); !errors.Is(err, errors.ErrTrackNotEmpty) {
		t.Fatalf("err = %v, want TRACK_NOT_EMPTY", err)
	}

	if _, err := DeleteClip(ctx, env.db, env.mgr, DeleteClipInput{ClipID: c.ID}); err != nil {
		t.Fatalf("DeleteClip failed: %v", err)
	}
	out, err := DeleteTrack(ctx, env.db, DeleteTrackInput{TrackID: trackID})
	if err != nil {
		t.Fatalf("DeleteTrack failed: %v", err)
	}
	if !out.Deleted {
		t.Error("Deleted = false, want true")
	}

	if _, err := DeleteTrack(ctx, env.db, DeleteTrackInput{TrackID: trackID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete: err = %v, want NOT_FOUND", err)
	}
}
