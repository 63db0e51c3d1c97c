package server

import (
	"net/http"
	"os"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/imaging"
	"github.com/battlewithbytes/skin-studio/internal/library"
)

type nameRequest struct {
	Name string `json:"name"`
}

type slotDataRequest struct {
	Data string `json:"data"`
	Ext  string `json:"ext,omitempty"`
	Path string `json:"path,omitempty"`
}

func (s *Server) handleListDigits(w http.ResponseWriter, r *http.Request) {
	presets, err := s.app.Digits.List()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if presets == nil {
		presets = []library.DigitPreset{}
	}
	writeOK(w, presets)
}

func (s *Server) handleCreateDigits(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Digits.Create(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.app.Digits.Get(req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCreated(w, p)
}

func (s *Server) handleGetDigits(w http.ResponseWriter, r *http.Request) {
	p, err := s.app.Digits.Get(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, p)
}

func (s *Server) handleRenameDigits(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Digits.Rename(r.PathValue("name"), req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, map[string]string{"name": req.Name})
}

func (s *Server) handleDeleteDigits(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Digits.Delete(r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

func (s *Server) handleSetDigit(w http.ResponseWriter, r *http.Request) {
	var req slotDataRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	buf, err := decodeBase64(req.Data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Digits.SetDigit(r.PathValue("name"), r.PathValue("slot"), buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

func (s *Server) handleRemoveDigit(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Digits.RemoveDigit(r.PathValue("name"), r.PathValue("slot")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleDigitPreviews returns a data URI per filled slot.
func (s *Server) handleDigitPreviews(w http.ResponseWriter, r *http.Request) {
	p, err := s.app.Digits.Get(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	previews, err := previewSlots(p.Slots)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, previews)
}

func previewSlots(slots map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(slots))
	for slot, path := range slots {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, apperr.IO("reading "+slot, err)
		}
		out[slot] = imaging.DataURI(buf)
	}
	return out, nil
}

func (s *Server) handleApplyDigits(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Applier.ApplyDigits(r.PathValue("name"), s.app.Use2x(req.Use2x)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}
