package server

import (
	"net/http"

	"github.com/battlewithbytes/skin-studio/internal/library"
)

type addPresetRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // base64 PNG, data: URI prefix allowed
}

type applyRequest struct {
	Use2x  *bool `json:"use_2x,omitempty"`
	Middle bool  `json:"middle,omitempty"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	c, err := library.ParseCategory(r.PathValue("category"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	presets, err := s.app.Images.List(c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if presets == nil {
		presets = []library.Preset{}
	}
	writeOK(w, presets)
}

func (s *Server) handleAddPreset(w http.ResponseWriter, r *http.Request) {
	c, err := library.ParseCategory(r.PathValue("category"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req addPresetRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	buf, err := decodeBase64(req.Data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.app.Images.Add(c, buf, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.app.Images.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCreated(w, p)
}

func (s *Server) handleSavePresetFromSkin(w http.ResponseWriter, r *http.Request) {
	c, err := library.ParseCategory(r.PathValue("category"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req addPresetRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	skinPath, err := s.app.SkinPath()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.app.Images.SaveFromSkin(c, skinPath, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.app.Images.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCreated(w, p)
}

func (s *Server) handleImagePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	uri, err := s.app.Images.Preview(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, map[string]string{"id": id, "data_uri": uri})
}

// handleDeleteImage reports whether a file was removed; a missing preset
// is not an error.
func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	deleted := s.app.Images.Delete(r.PathValue("id"))
	writeOK(w, map[string]bool{"deleted": deleted})
}

func (s *Server) handleApplyImage(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	use2x := s.app.Use2x(req.Use2x)

	var err error
	if req.Middle {
		err = s.app.Applier.ApplyCursorTrail(id, true, use2x)
	} else {
		err = s.app.Applier.ApplyImage(id, use2x)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

type circlePairRequest struct {
	CircleID  string `json:"circle_id"`
	OverlayID string `json:"overlay_id"`
	Use2x     *bool  `json:"use_2x,omitempty"`
}

func (s *Server) handleApplyCirclePair(w http.ResponseWriter, r *http.Request) {
	var req circlePairRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Applier.ApplyCirclePair(req.CircleID, req.OverlayID, s.app.Use2x(req.Use2x)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}
