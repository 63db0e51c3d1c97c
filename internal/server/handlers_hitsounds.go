package server

import (
	"net/http"
	"strings"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/library"
)

func (s *Server) handleListHitsounds(w http.ResponseWriter, r *http.Request) {
	presets, err := s.app.Hitsounds.List()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if presets == nil {
		presets = []library.HitsoundPreset{}
	}
	writeOK(w, presets)
}

func (s *Server) handleCreateHitsounds(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Hitsounds.Create(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.app.Hitsounds.Get(req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCreated(w, p)
}

func (s *Server) handleGetHitsounds(w http.ResponseWriter, r *http.Request) {
	p, err := s.app.Hitsounds.Get(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, p)
}

func (s *Server) handleRenameHitsounds(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Hitsounds.Rename(r.PathValue("name"), req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, map[string]string{"name": req.Name})
}

func (s *Server) handleDeleteHitsounds(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Hitsounds.Delete(r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// splitSlot turns a "<type>-<sound>" path segment into its parts.
func splitSlot(slot string) (string, string, error) {
	key, err := library.ParseSlot(slot)
	if err != nil {
		return "", "", err
	}
	typ, sound, _ := strings.Cut(key, "-")
	return typ, sound, nil
}

// handleSetSound fills a slot from a local file path or from uploaded
// bytes with an extension.
func (s *Server) handleSetSound(w http.ResponseWriter, r *http.Request) {
	typ, sound, err := splitSlot(r.PathValue("slot"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req slotDataRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	name := r.PathValue("name")
	switch {
	case req.Path != "":
		err = s.app.Hitsounds.SetSound(name, typ, sound, req.Path)
	case req.Data != "":
		if req.Ext == "" {
			s.writeError(w, r, apperr.Invalid("ext is required with data"))
			return
		}
		var buf []byte
		if buf, err = decodeBase64(req.Data); err == nil {
			err = s.app.Hitsounds.SetSoundData(name, typ, sound, req.Ext, buf)
		}
	default:
		err = apperr.Invalid("send either path or data")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

func (s *Server) handleRemoveSound(w http.ResponseWriter, r *http.Request) {
	typ, sound, err := splitSlot(r.PathValue("slot"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Hitsounds.RemoveSound(r.PathValue("name"), typ, sound); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

func (s *Server) handleApplyHitsounds(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Applier.ApplyHitsounds(r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// --- current-skin caches ---

// cacheFor maps the {kind} path segment to its cache.
func (s *Server) cacheFor(kind string) (*library.SkinCache, error) {
	switch kind {
	case "digits":
		return s.app.Digits.Cache(), nil
	case "hitsounds":
		return s.app.Hitsounds.Cache(), nil
	}
	return nil, apperr.NotFound("current-skin view " + kind)
}

func (s *Server) handleReadCurrent(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if _, err := s.cacheFor(kind); err != nil {
		s.writeError(w, r, err)
		return
	}
	skinPath, err := s.app.SkinPath()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var data interface{}
	if kind == "digits" {
		p, err := s.app.Digits.ReadCurrent(skinPath)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		data = p
	} else {
		p, err := s.app.Hitsounds.ReadCurrent(skinPath)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		data = p
	}
	writeOK(w, data)
}

func (s *Server) handleRefreshCurrent(w http.ResponseWriter, r *http.Request) {
	c, err := s.cacheFor(r.PathValue("kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	skinPath, err := s.app.SkinPath()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := c.Refresh(skinPath); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

func (s *Server) handleSaveCurrent(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if _, err := s.cacheFor(kind); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req nameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	skinPath, err := s.app.SkinPath()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if kind == "digits" {
		err = s.app.Digits.SaveCurrent(req.Name, skinPath)
	} else {
		err = s.app.Hitsounds.SaveCurrent(req.Name, skinPath)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCreated(w, map[string]string{"name": req.Name})
}
