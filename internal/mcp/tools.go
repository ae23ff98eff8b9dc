package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Argument names match the JSON field names of the clip
// and track entities, so values read from one tool can be passed straight
// back into another. All times are integer milliseconds.

var addClipToolDef = mcp.NewTool("add_clip",
	mcp.WithDescription("Place a new clip on a track. Neighbors the new clip overlaps are trimmed and neighbors it fully covers are removed, keeping the track overlap-free. Recorded in the edit history."),
	mcp.WithNumber("track_id", mcp.Required(), mcp.Description("Track to place the clip on.")),
	mcp.WithString("source_path", mcp.Required(), mcp.Description("Path or URI of the source media.")),
	mcp.WithNumber("start_time_on_track_ms", mcp.Required(), mcp.Description("Start of the clip on the track.")),
	mcp.WithNumber("end_time_on_track_ms", mcp.Required(), mcp.Description("End of the clip on the track (exclusive).")),
	mcp.WithString("name", mcp.Description("Display name.")),
	mcp.WithString("type", mcp.Description("Media kind. Defaults to video."), mcp.Enum("video", "audio", "image")),
	mcp.WithNumber("source_duration_ms", mcp.Description("Full duration of the source media. Defaults to the on-track duration for image clips.")),
	mcp.WithNumber("start_time_in_source_ms", mcp.Description("Start of the source window. Defaults to 0.")),
	mcp.WithNumber("end_time_in_source_ms", mcp.Description("End of the source window. Defaults to start_time_in_source_ms plus the on-track duration.")),
	mcp.WithObject("preview", mcp.Description("Preview placement: x, y, width, height, flip_h, flip_v.")),
	mcp.WithString("metadata", mcp.Description("Opaque metadata stored with the clip.")),
)

var moveClipToolDef = mcp.NewTool("move_clip",
	mcp.WithDescription("Move a clip to a new start time, optionally onto another track. Duration and source window are preserved; overlapped neighbors are trimmed or removed. Recorded in the edit history."),
	mcp.WithNumber("clip_id", mcp.Required(), mcp.Description("Clip to move.")),
	mcp.WithNumber("start_time_on_track_ms", mcp.Required(), mcp.Description("New start position on the track.")),
	mcp.WithNumber("track_id", mcp.Description("Destination track. Defaults to the clip's current track.")),
)

var resizeClipToolDef = mcp.NewTool("resize_clip",
	mcp.WithDescription("Change a clip's on-track range. The source window follows the moved edges by the same amounts unless given explicitly. Overlapped neighbors are trimmed or removed. Recorded in the edit history."),
	mcp.WithNumber("clip_id", mcp.Required(), mcp.Description("Clip to resize.")),
	mcp.WithNumber("start_time_on_track_ms", mcp.Required(), mcp.Description("New start on the track.")),
	mcp.WithNumber("end_time_on_track_ms", mcp.Required(), mcp.Description("New end on the track (exclusive).")),
	mcp.WithNumber("start_time_in_source_ms", mcp.Description("Explicit new source window start.")),
	mcp.WithNumber("end_time_in_source_ms", mcp.Description("Explicit new source window end.")),
)

var deleteClipToolDef = mcp.NewTool("delete_clip",
	mcp.WithDescription("Remove a clip from the timeline. Recorded in the edit history; undo restores the clip with its original id."),
	mcp.WithNumber("clip_id", mcp.Required(), mcp.Description("Clip to delete.")),
)

var splitClipToolDef = mcp.NewTool("split_clip",
	mcp.WithDescription("Cut a clip in two at a track time strictly inside it. Both fragments keep the same source media; the cut point maps into the source window. Recorded in the edit history as one entry."),
	mcp.WithNumber("clip_id", mcp.Required(), mcp.Description("Clip to split.")),
	mcp.WithNumber("at_track_ms", mcp.Required(), mcp.Description("Track time of the cut. Must be strictly between the clip's start and end.")),
)

var rippleMoveToolDef = mcp.NewTool("ripple_move",
	mcp.WithDescription("Move a clip and shift every later clip on the same track by the same amount, preserving the gaps between them. Fails with CONFLICT instead of trimming if the shifted block would collide with an earlier clip."),
	mcp.WithNumber("clip_id", mcp.Required(), mcp.Description("Clip to move.")),
	mcp.WithNumber("target_start_ms", mcp.Required(), mcp.Description("New start position on the track.")),
)

var previewDragToolDef = mcp.NewTool("preview_drag",
	mcp.WithDescription("Project the timeline as it would look if a clip were dropped at a position, without persisting or recording anything. Use while scrubbing; commit with move_clip."),
	mcp.WithNumber("clip_id", mcp.Required(), mcp.Description("Clip being dragged.")),
	mcp.WithNumber("target_start_ms", mcp.Required(), mcp.Description("Hypothetical start position on the track.")),
	mcp.WithNumber("target_track_id", mcp.Description("Hypothetical destination track. Defaults to the clip's current track.")),
)

var overlappingToolDef = mcp.NewTool("overlapping",
	mcp.WithDescription("List the clips on a track that intersect a half-open time range [start_ms, end_ms)."),
	mcp.WithNumber("track_id", mcp.Required(), mcp.Description("Track to query.")),
	mcp.WithNumber("start_ms", mcp.Required(), mcp.Description("Range start.")),
	mcp.WithNumber("end_ms", mcp.Required(), mcp.Description("Range end (exclusive).")),
	mcp.WithNumber("exclude_id", mcp.Description("Clip id to leave out of the result, e.g. the clip being dragged.")),
)

var listClipsToolDef = mcp.NewTool("list_clips",
	mcp.WithDescription("List clips ordered by track and start time, with the total timeline duration."),
	mcp.WithNumber("track_id", mcp.Description("Limit to one track. Defaults to every track.")),
)

var getClipToolDef = mcp.NewTool("get_clip",
	mcp.WithDescription("Fetch a single clip by id."),
	mcp.WithNumber("clip_id", mcp.Required(), mcp.Description("Clip to fetch.")),
)

var listTracksToolDef = mcp.NewTool("list_tracks",
	mcp.WithDescription("List tracks in position order."),
)

var addTrackToolDef = mcp.NewTool("add_track",
	mcp.WithDescription("Create a track. Tracks are project structure, not edits: creating one is not undoable."),
	mcp.WithString("name", mcp.Description("Display name. Defaults to Track N.")),
	mcp.WithString("type", mcp.Description("Lane kind. Defaults to video."), mcp.Enum("video", "audio")),
	mcp.WithNumber("position", mcp.Description("Ordering position. Defaults to the end.")),
)

var undoToolDef = mcp.NewTool("undo",
	mcp.WithDescription("Revert the most recent edit. Returns what was undone and the resulting can_undo/can_redo flags; undoing with an empty history is a no-op, not an error."),
)

var redoToolDef = mcp.NewTool("redo",
	mcp.WithDescription("Re-apply the most recently undone edit. Redoing with nothing to redo is a no-op, not an error."),
)

var historyToolDef = mcp.NewTool("history",
	mcp.WithDescription("Page through the persisted edit history, newest first."),
	mcp.WithNumber("limit", mcp.Description("Page size. Defaults to 20, capped at 100.")),
	mcp.WithNumber("offset", mcp.Description("Entries to skip. Defaults to 0.")),
)

var clearHistoryToolDef = mcp.NewTool("clear_history",
	mcp.WithDescription("Drop the entire edit history, both undo and redo. Clips and tracks are untouched. Irreversible."),
)

var statusToolDef = mcp.NewTool("status",
	mcp.WithDescription("Summarize the project: track and clip counts, timeline duration, history depths, undo/redo flags, and any timeline invariant violations."),
)

var importCutlistToolDef = mcp.NewTool("import_cutlist",
	mcp.WithDescription("Seed the timeline from a YAML cutlist file. Creates the file's tracks and places every entry through the engine, so imported clips obey the overlap rules. Rejected whole if any entry is invalid. Not recorded in the edit history."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path to a .yaml or .yml cutlist file.")),
)

var exportCutlistToolDef = mcp.NewTool("export_cutlist",
	mcp.WithDescription("Write the current timeline to a YAML cutlist file."),
	mcp.WithString("path", mcp.Description("Destination .yaml or .yml path. Defaults to a timestamped file under ~/.montage/exports.")),
)
