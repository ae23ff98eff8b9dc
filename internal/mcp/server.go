package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"montage/internal/config"
	"montage/internal/history"
	"montage/internal/logging"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"add_clip": {
		def:     addClipToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAddClip },
	},
	"move_clip": {
		def:     moveClipToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMoveClip },
	},
	"resize_clip": {
		def:     resizeClipToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleResizeClip },
	},
	"delete_clip": {
		def:     deleteClipToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDeleteClip },
	},
	"split_clip": {
		def:     splitClipToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSplitClip },
	},
	"ripple_move": {
		def:     rippleMoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRippleMove },
	},
	"preview_drag": {
		def:     previewDragToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePreviewDrag },
	},
	"overlapping": {
		def:     overlappingToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOverlapping },
	},
	"list_clips": {
		def:     listClipsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListClips },
	},
	"get_clip": {
		def:     getClipToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetClip },
	},
	"list_tracks": {
		def:     listTracksToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListTracks },
	},
	"add_track": {
		def:     addTrackToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAddTrack },
	},
	"undo": {
		def:     undoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUndo },
	},
	"redo": {
		def:     redoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRedo },
	},
	"history": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
	},
	"clear_history": {
		def:     clearHistoryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClearHistory },
	},
	"status": {
		def:     statusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
	"import_cutlist": {
		def:     importCutlistToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImportCutlist },
	},
	"export_cutlist": {
		def:     exportCutlistToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExportCutlist },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with montage tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
// All mutating tools share the one manager, so the undo/redo stacks the
// tools report are consistent across calls for the life of the process.
func NewServer(database *sql.DB, cfg *config.Config, mgr *history.Manager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"montage",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(database, cfg, mgr)

	if unknown := ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log := logging.WithComponent("mcp")
		log.Warn().
			Strs("tools", unknown).
			Msg("unknown disabled tool names ignored")
	}

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(database *sql.DB, cfg *config.Config, mgr *history.Manager, version string) error {
	s := NewServer(database, cfg, mgr, version)
	return server.ServeStdio(s)
}
