package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/history"
	"github.com/battlewithbytes/skin-studio/internal/seed"
	"github.com/battlewithbytes/skin-studio/internal/updater"
)

// --- seed ---

type seedStatus struct {
	State         string   `json:"state"`
	BundleVersion string   `json:"bundle_version"`
	SeededVersion string   `json:"seeded_version,omitempty"`
	Seeded        []string `json:"seeded,omitempty"`
}

func (s *Server) handleSeedStatus(w http.ResponseWriter, r *http.Request) {
	m, _ := s.app.Seed.ReadMarker()
	writeOK(w, seedStatus{
		State:         s.app.Seed.State().String(),
		BundleVersion: seed.BundleVersion,
		SeededVersion: m.Version,
		Seeded:        m.Seeded,
	})
}

func (s *Server) handleRunSeed(w http.ResponseWriter, r *http.Request) {
	rep, err := s.app.Seed.Run()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, rep)
}

// --- updates ---

const checkTimeout = 20 * time.Second

// handleCheckUpdate runs a cached check. force=1 bypasses the cache and
// startup=1 honours the ignore preference.
func (s *Server) handleCheckUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	q := r.URL.Query()
	if q.Get("force") == "1" {
		s.app.Updater.InvalidateCache()
	}
	var st updater.Status
	if q.Get("startup") == "1" {
		st = s.app.Updater.CheckOnStartup(ctx)
	} else {
		st = s.app.Updater.CheckNow(ctx)
	}
	writeOK(w, st)
}

func (s *Server) handleIgnoreUpdates(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Updater.IgnoreFuture(); err != nil {
		s.writeError(w, r, apperr.IO("saving config", err))
		return
	}
	writeOK(w, map[string]bool{"ignored": true})
}

func (s *Server) handleEnableUpdates(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Updater.Reenable(); err != nil {
		s.writeError(w, r, apperr.IO("saving config", err))
		return
	}
	writeOK(w, map[string]bool{"ignored": false})
}

// downloadMessage is one frame on the download progress socket.
type downloadMessage struct {
	Type     string            `json:"type"` // progress, done or error
	Progress *updater.Progress `json:"progress,omitempty"`
	Path     string            `json:"path,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// handleDownloadUpdate streams download progress over a WebSocket and
// closes it once the binary is staged.
func (s *Server) handleDownloadUpdate(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: allowedOriginPatterns(r),
	})
	if err != nil {
		s.log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	ctx := conn.CloseRead(r.Context())
	path, err := s.app.Updater.Download(ctx, func(p updater.Progress) {
		if werr := wsjson.Write(ctx, conn, downloadMessage{Type: "progress", Progress: &p}); werr != nil {
			s.log.Debug("progress frame dropped", zap.Error(werr))
		}
	})
	if err != nil {
		s.log.Error("update download failed", zap.Error(err))
		wsjson.Write(ctx, conn, downloadMessage{Type: "error", Error: err.Error()})
		conn.Close(websocket.StatusInternalError, "download failed")
		return
	}
	wsjson.Write(ctx, conn, downloadMessage{Type: "done", Path: path})
	conn.Close(websocket.StatusNormalClosure, "")
}

// installDelay lets the response reach the client before the process exits.
const installDelay = 250 * time.Millisecond

func (s *Server) handleInstallUpdate(w http.ResponseWriter, r *http.Request) {
	if s.app.Updater.Staged() == "" {
		s.writeError(w, r, apperr.Invalid("download the update before installing it"))
		return
	}
	writeOK(w, map[string]bool{"installing": true})
	_ = http.NewResponseController(w).Flush()
	go func() {
		time.Sleep(installDelay)
		if err := s.app.Updater.Install(); err != nil {
			s.log.Error("installing update failed", zap.Error(err))
		}
	}()
}

// --- history ---

const defaultHistoryLimit = 50

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.app.History == nil {
		s.writeError(w, r, apperr.NotFound("apply history"))
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, apperr.Invalid("limit must be a number"))
			return
		}
		limit = n
	}
	recs, err := s.app.History.Recent(limit)
	if err != nil {
		s.writeError(w, r, apperr.IO("reading history", err))
		return
	}
	if recs == nil {
		recs = []*history.Record{}
	}
	writeOK(w, recs)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if s.app.History == nil {
		s.writeError(w, r, apperr.NotFound("apply history"))
		return
	}
	n, err := s.app.History.Clear()
	if err != nil {
		s.writeError(w, r, apperr.IO("clearing history", err))
		return
	}
	writeOK(w, map[string]int64{"deleted": n})
}
