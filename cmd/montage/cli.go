package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"montage/internal/config"
	"montage/internal/errors"
	"montage/internal/history"
	"montage/internal/httpapi"
	"montage/internal/mcp"
	"montage/internal/ops"
	"montage/internal/timeline"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, cfg *config.Config, mgr *history.Manager) *cli.App {
	app := &cli.App{
		Name:    "montage",
		Usage:   "Timeline clip editing with undoable history",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "Base directory (default: ~/.montage)"},
			&cli.BoolFlag{Name: "compact", Usage: "Compact JSON output"},
		},
		Commands: []*cli.Command{
			addCmd(database, cfg, mgr),
			moveCmd(database, cfg, mgr),
			resizeCmd(database, cfg, mgr),
			deleteCmd(database, mgr),
			splitCmd(database, cfg, mgr),
			rippleCmd(database, cfg, mgr),
			previewCmd(database, cfg),
			overlapsCmd(database, cfg),
			clipsCmd(database),
			getCmd(database),
			tracksCmd(database),
			trackAddCmd(database),
			trackRmCmd(database),
			undoCmd(mgr),
			redoCmd(mgr),
			historyCmd(database),
			clearHistoryCmd(mgr),
			statusCmd(database, mgr),
			importCmd(database, cfg),
			exportCmd(database, cfg),
			serveCmd(database, cfg, mgr),
			mcpCmd(database, cfg, mgr),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(database *sql.DB, cfg *config.Config, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Place a clip on a track (overlapped neighbors are trimmed or removed)",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "track", Aliases: []string{"t"}, Required: true, Usage: "Track id"},
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Required: true, Usage: "Source media path or URI"},
			&cli.StringFlag{Name: "start", Required: true, Usage: "Start on the track (ms, mm:ss.mmm, or Nf)"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "End on the track, exclusive"},
			&cli.StringFlag{Name: "source-duration", Usage: "Full duration of the source media"},
			&cli.StringFlag{Name: "source-start", Usage: "Start of the source window (default 0)"},
			&cli.StringFlag{Name: "source-end", Usage: "End of the source window"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name"},
			&cli.StringFlag{Name: "type", Usage: "Media kind: video|audio|image (default video)"},
			&cli.StringFlag{Name: "metadata", Usage: "Opaque metadata stored with the clip"},
			&cli.StringFlag{Name: "fps", Usage: "Framerate for frame-suffixed times (default from config)"},
		},
		Action: func(c *cli.Context) error {
			fr, err := framerateFor(c, cfg)
			if err != nil {
				return outputError(err)
			}

			startMs, err := timeArg(c, fr, "start")
			if err != nil {
				return outputError(err)
			}
			endMs, err := timeArg(c, fr, "end")
			if err != nil {
				return outputError(err)
			}

			input := ops.AddClipInput{
				TrackID:        c.Int64("track"),
				Name:           c.String("name"),
				Type:           c.String("type"),
				SourcePath:     c.String("source"),
				StartOnTrackMs: startMs,
				EndOnTrackMs:   endMs,
				Metadata:       c.String("metadata"),
			}
			if c.IsSet("source-duration") {
				if input.SourceDurationMs, err = timeArg(c, fr, "source-duration"); err != nil {
					return outputError(err)
				}
			}
			if c.IsSet("source-start") {
				if input.StartInSourceMs, err = timeArg(c, fr, "source-start"); err != nil {
					return outputError(err)
				}
			}
			if c.IsSet("source-end") {
				if input.EndInSourceMs, err = timeArg(c, fr, "source-end"); err != nil {
					return outputError(err)
				}
			}

			output, err := ops.AddClip(c.Context, database, cfg, mgr, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// moveCmd creates the move command.
func moveCmd(database *sql.DB, cfg *config.Config, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Reposition a clip, keeping its duration and source window",
		ArgsUsage: "<clip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Required: true, Usage: "New start on the track (ms, mm:ss.mmm, or Nf)"},
			&cli.Int64Flag{Name: "track", Aliases: []string{"t"}, Usage: "Destination track id (default: same track)"},
			&cli.StringFlag{Name: "fps", Usage: "Framerate for frame-suffixed times (default from config)"},
		},
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "clip-id")
			if err != nil {
				return outputError(err)
			}
			fr, err := framerateFor(c, cfg)
			if err != nil {
				return outputError(err)
			}
			startMs, err := timeArg(c, fr, "start")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.MoveClip(c.Context, database, cfg, mgr, ops.MoveClipInput{
				ClipID:         id,
				TrackID:        c.Int64("track"),
				StartOnTrackMs: startMs,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// resizeCmd creates the resize command.
func resizeCmd(database *sql.DB, cfg *config.Config, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:      "resize",
		Usage:     "Change a clip's track range; the source window follows moved edges",
		ArgsUsage: "<clip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Required: true, Usage: "New start on the track (ms, mm:ss.mmm, or Nf)"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "New end on the track, exclusive"},
			&cli.StringFlag{Name: "source-start", Usage: "Explicit source window start"},
			&cli.StringFlag{Name: "source-end", Usage: "Explicit source window end"},
			&cli.StringFlag{Name: "fps", Usage: "Framerate for frame-suffixed times (default from config)"},
		},
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "clip-id")
			if err != nil {
				return outputError(err)
			}
			fr, err := framerateFor(c, cfg)
			if err != nil {
				return outputError(err)
			}
			startMs, err := timeArg(c, fr, "start")
			if err != nil {
				return outputError(err)
			}
			endMs, err := timeArg(c, fr, "end")
			if err != nil {
				return outputError(err)
			}

			input := ops.ResizeClipInput{
				ClipID:         id,
				StartOnTrackMs: startMs,
				EndOnTrackMs:   endMs,
			}
			if c.IsSet("source-start") {
				v, err := timeArg(c, fr, "source-start")
				if err != nil {
					return outputError(err)
				}
				input.StartInSourceMs = &v
			}
			if c.IsSet("source-end") {
				v, err := timeArg(c, fr, "source-end")
				if err != nil {
					return outputError(err)
				}
				input.EndInSourceMs = &v
			}

			output, err := ops.ResizeClip(c.Context, database, cfg, mgr, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(database *sql.DB, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Remove a clip (undo restores it under the same id)",
		ArgsUsage: "<clip-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "clip-id")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.DeleteClip(c.Context, database, mgr, ops.DeleteClipInput{ClipID: id})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// splitCmd creates the split command.
func splitCmd(database *sql.DB, cfg *config.Config, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "Cut a clip in two at a point strictly inside it",
		ArgsUsage: "<clip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "at", Required: true, Usage: "Cut point on the track (ms, mm:ss.mmm, or Nf)"},
			&cli.StringFlag{Name: "fps", Usage: "Framerate for frame-suffixed times (default from config)"},
		},
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "clip-id")
			if err != nil {
				return outputError(err)
			}
			fr, err := framerateFor(c, cfg)
			if err != nil {
				return outputError(err)
			}
			atMs, err := timeArg(c, fr, "at")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.SplitClip(c.Context, database, mgr, ops.SplitClipInput{ClipID: id, AtTrackMs: atMs})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// rippleCmd creates the ripple command.
func rippleCmd(database *sql.DB, cfg *config.Config, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:      "ripple",
		Usage:     "Move a clip and shift everything after it by the same delta",
		ArgsUsage: "<clip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Required: true, Usage: "New start on the track (ms, mm:ss.mmm, or Nf)"},
			&cli.StringFlag{Name: "fps", Usage: "Framerate for frame-suffixed times (default from config)"},
		},
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "clip-id")
			if err != nil {
				return outputError(err)
			}
			fr, err := framerateFor(c, cfg)
			if err != nil {
				return outputError(err)
			}
			toMs, err := timeArg(c, fr, "to")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.RippleMove(c.Context, database, mgr, ops.RippleMoveInput{ClipID: id, TargetStartMs: toMs})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// previewCmd creates the preview command.
func previewCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Project a drop position without changing anything",
		ArgsUsage: "<clip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Required: true, Usage: "Candidate start on the track (ms, mm:ss.mmm, or Nf)"},
			&cli.Int64Flag{Name: "track", Aliases: []string{"t"}, Usage: "Candidate track id (default: same track)"},
			&cli.StringFlag{Name: "fps", Usage: "Framerate for frame-suffixed times (default from config)"},
		},
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "clip-id")
			if err != nil {
				return outputError(err)
			}
			fr, err := framerateFor(c, cfg)
			if err != nil {
				return outputError(err)
			}
			toMs, err := timeArg(c, fr, "to")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.PreviewDrag(c.Context, database, ops.PreviewDragInput{
				ClipID:        id,
				TargetTrackID: c.Int64("track"),
				TargetStartMs: toMs,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// overlapsCmd creates the overlaps command.
func overlapsCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "overlaps",
		Usage: "List clips on a track intersecting a half-open time range",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "track", Aliases: []string{"t"}, Required: true, Usage: "Track id"},
			&cli.StringFlag{Name: "start", Required: true, Usage: "Range start (ms, mm:ss.mmm, or Nf)"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "Range end, exclusive"},
			&cli.Int64Flag{Name: "exclude", Usage: "Clip id to leave out of the answer"},
			&cli.StringFlag{Name: "fps", Usage: "Framerate for frame-suffixed times (default from config)"},
		},
		Action: func(c *cli.Context) error {
			fr, err := framerateFor(c, cfg)
			if err != nil {
				return outputError(err)
			}
			startMs, err := timeArg(c, fr, "start")
			if err != nil {
				return outputError(err)
			}
			endMs, err := timeArg(c, fr, "end")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Overlapping(c.Context, database, ops.OverlappingInput{
				TrackID:   c.Int64("track"),
				StartMs:   startMs,
				EndMs:     endMs,
				ExcludeID: c.Int64("exclude"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// clipsCmd creates the clips command.
func clipsCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "clips",
		Usage: "List clips, timeline-wide or for one track",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "track", Aliases: []string{"t"}, Usage: "Limit to one track"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListClips(c.Context, database, ops.ListClipsInput{TrackID: c.Int64("track")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// getCmd creates the get command.
func getCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a single clip",
		ArgsUsage: "<clip-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "clip-id")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.GetClip(c.Context, database, ops.GetClipInput{ClipID: id})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// tracksCmd creates the tracks command.
func tracksCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List tracks in position order",
		Action: func(c *cli.Context) error {
			output, err := ops.ListTracks(c.Context, database)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// trackAddCmd creates the track-add command.
func trackAddCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "track-add",
		Usage: "Create a track",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Track name"},
			&cli.StringFlag{Name: "type", Value: "video", Usage: "Lane kind: video|audio"},
			&cli.Int64Flag{Name: "position", Aliases: []string{"p"}, Usage: "Insert position (default: append)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AddTrackInput{
				Name: c.String("name"),
				Type: c.String("type"),
			}
			if c.IsSet("position") {
				pos := c.Int64("position")
				input.Position = &pos
			}

			output, err := ops.AddTrack(c.Context, database, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// trackRmCmd creates the track-rm command.
func trackRmCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "track-rm",
		Usage:     "Delete an empty track",
		ArgsUsage: "<track-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "track-id")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.DeleteTrack(c.Context, database, ops.DeleteTrackInput{TrackID: id})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// undoCmd creates the undo command.
func undoCmd(mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:  "undo",
		Usage: "Revert the most recent edit",
		Action: func(c *cli.Context) error {
			output, err := ops.Undo(c.Context, mgr)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// redoCmd creates the redo command.
func redoCmd(mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:  "redo",
		Usage: "Re-apply the most recently undone edit",
		Action: func(c *cli.Context) error {
			output, err := ops.Redo(c.Context, mgr)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded edits, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum entries to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Entries to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.History(c.Context, database, ops.HistoryInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// clearHistoryCmd creates the clear-history command.
func clearHistoryCmd(mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:  "clear-history",
		Usage: "Drop all undo/redo state; clips and tracks stay as they are",
		Action: func(c *cli.Context) error {
			output, err := ops.ClearHistory(c.Context, mgr)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(database *sql.DB, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Summarize the timeline and edit history",
		Action: func(c *cli.Context) error {
			output, err := ops.Status(c.Context, database, mgr)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Seed the timeline from a YAML cutlist (not undoable)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Cutlist file path"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ImportCutlist(c.Context, database, cfg, ops.ImportCutlistInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the timeline out as a YAML cutlist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path (default: ~/.montage/exports/timeline-<timestamp>.yaml)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ExportCutlist(c.Context, database, cfg, ops.ExportCutlistInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(database *sql.DB, cfg *config.Config, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON inspection API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := c.String("bind")
			if bind == "" {
				bind = cfg.HTTPBind
			}
			port := c.Int("port")
			if port == 0 {
				port = cfg.HTTPPort
			}

			srv := httpapi.NewServer(database, cfg, mgr, Version, bind, port)
			return httpapi.Run(srv)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(database *sql.DB, cfg *config.Config, mgr *history.Manager) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the MCP stdio interface (the default when input is piped)",
		Action: func(c *cli.Context) error {
			return mcp.Run(database, cfg, mgr, Version)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout, pretty-printed unless --compact.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(os.Stdout)
	if !c.Bool("compact") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// outputError formats error for CLI, keeping the machine-readable code.
func outputError(err error) error {
	var mErr *errors.MontageError
	if stderrors.As(err, &mErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", mErr.Code, mErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// idArg reads the required positional id argument.
func idArg(c *cli.Context, name string) (int64, error) {
	if c.NArg() < 1 {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("%s argument is required", name))
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// framerateFor resolves the framerate for frame-suffixed time arguments:
// --fps when given, otherwise the configured default.
func framerateFor(c *cli.Context, cfg *config.Config) (timeline.Framerate, error) {
	spec := c.String("fps")
	if spec == "" && cfg != nil {
		spec = cfg.DefaultFramerate
	}
	if spec == "" {
		return timeline.DefaultFramerate, nil
	}
	return timeline.ParseFramerate(spec)
}

// timeArg parses a time-valued flag, reported as an invalid request.
func timeArg(c *cli.Context, fr timeline.Framerate, name string) (int64, error) {
	ms, err := parseTimeArg(c.String(name), fr)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("--%s: %v", name, err))
	}
	return ms, nil
}

// parseTimeArg converts a CLI time value to milliseconds. Three forms are
// accepted: plain integer milliseconds ("4500"), a timecode ("1:30",
// "01:30.250", "1:02:03.004"), or a frame count with an "f" suffix ("450f")
// interpreted against the active framerate.
func parseTimeArg(s string, fr timeline.Framerate) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("time value is empty")
	}

	if frameStr, ok := strings.CutSuffix(s, "f"); ok {
		frame, err := strconv.ParseInt(frameStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid frame count %q", s)
		}
		if frame < 0 {
			return 0, fmt.Errorf("frame count must not be negative")
		}
		return fr.FrameToMs(frame), nil
	}

	if strings.Contains(s, ":") {
		return parseTimecode(s)
	}

	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want ms, mm:ss.mmm, or Nf)", s)
	}
	return ms, nil
}

// parseTimecode parses [hh:]mm:ss[.mmm] into milliseconds.
func parseTimecode(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}

	var hours int64
	if len(parts) == 3 {
		h, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || h < 0 {
			return 0, fmt.Errorf("invalid timecode %q", s)
		}
		hours = h
		parts = parts[1:]
	}

	minutes, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}

	secStr, fracStr, hasFrac := strings.Cut(parts[1], ".")
	seconds, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}

	var msec int64
	if hasFrac {
		if fracStr == "" || len(fracStr) > 3 {
			return 0, fmt.Errorf("invalid timecode %q", s)
		}
		frac, err := strconv.ParseInt(fracStr, 10, 64)
		if err != nil || frac < 0 {
			return 0, fmt.Errorf("invalid timecode %q", s)
		}
		// ".5" means 500ms, ".25" means 250ms.
		for i := len(fracStr); i < 3; i++ {
			frac *= 10
		}
		msec = frac
	}

	return ((hours*60+minutes)*60+seconds)*1000 + msec, nil
}
