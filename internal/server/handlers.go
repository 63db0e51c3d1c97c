package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/skin"
	"github.com/battlewithbytes/skin-studio/internal/skinini"
	"github.com/battlewithbytes/skin-studio/internal/version"
)

// envelope is the only response shape: the operation result plus an
// optional payload.
type envelope struct {
	apperr.Result
	Data interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Result: apperr.OK(), Data: data})
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, envelope{Result: apperr.OK(), Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.log.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, envelope{Result: apperr.ResultOf(err)})
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotConfigured:
		return http.StatusPreconditionFailed
	case apperr.KindSkinFolderNotFound, apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case apperr.KindDuplicateName:
		return http.StatusConflict
	case apperr.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v. An empty body leaves v
// untouched when optional is set.
func decodeJSON(r *http.Request, v interface{}, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && optional:
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Invalid("request body too large (limit %d bytes)", tooLarge.Limit)
	}
	return apperr.Invalid("invalid request body: %v", err)
}

func decodeBase64(data string) ([]byte, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 {
		data = data[i+len(";base64,"):]
	}
	buf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, apperr.Invalid("data is not valid base64")
	}
	if len(buf) == 0 {
		return nil, apperr.Invalid("data is empty")
	}
	return buf, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]interface{}{
		"status":  "ok",
		"version": version.Version,
		"commit":  version.Commit,
	})
}

// --- config ---

type configResponse struct {
	Config    config.Config `json:"config"`
	SkinPath  string        `json:"skin_path,omitempty"`
	SkinError string        `json:"skin_error,omitempty"`
}

func (s *Server) configView(cfg config.Config) configResponse {
	resp := configResponse{Config: cfg}
	path, err := skin.ResolveExisting(cfg)
	if err != nil {
		resp.SkinError = err.Error()
	} else {
		resp.SkinPath = path
	}
	return resp
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeOK(w, s.configView(s.app.Config.Load()))
}

type stringRequest struct {
	Value string `json:"value"`
}

type boolRequest struct {
	Enabled bool `json:"enabled"`
}

// setString adapts a string config setter to a handler.
func (s *Server) setString(set func(string) (config.Config, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req stringRequest
		if err := decodeJSON(r, &req, false); err != nil {
			s.writeError(w, r, err)
			return
		}
		cfg, err := set(strings.TrimSpace(req.Value))
		if err != nil {
			s.writeError(w, r, apperr.IO("saving config", err))
			return
		}
		writeOK(w, s.configView(cfg))
	}
}

func (s *Server) setBool(set func(bool) (config.Config, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req boolRequest
		if err := decodeJSON(r, &req, false); err != nil {
			s.writeError(w, r, err)
			return
		}
		cfg, err := set(req.Enabled)
		if err != nil {
			s.writeError(w, r, apperr.IO("saving config", err))
			return
		}
		writeOK(w, s.configView(cfg))
	}
}

func (s *Server) handleSetInstallFolder(w http.ResponseWriter, r *http.Request) {
	s.setString(s.app.Config.SetInstallFolder)(w, r)
}

func (s *Server) handleSetActiveSkin(w http.ResponseWriter, r *http.Request) {
	s.setString(s.app.Config.SetActiveSkin)(w, r)
}

func (s *Server) handleSetLazerMode(w http.ResponseWriter, r *http.Request) {
	s.setBool(s.app.Config.SetLazerMode)(w, r)
}

func (s *Server) handleSetLazerPath(w http.ResponseWriter, r *http.Request) {
	s.setString(s.app.Config.SetLazerSkinPath)(w, r)
}

func (s *Server) handleSetUse2x(w http.ResponseWriter, r *http.Request) {
	s.setBool(s.app.Config.SetUse2x)(w, r)
}

// --- skins ---

type skinsResponse struct {
	Skins       []string `json:"skins"`
	Active      string   `json:"active,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (s *Server) handleListSkins(w http.ResponseWriter, r *http.Request) {
	cfg := s.app.Config.Load()
	names, err := skin.List(cfg.InstallFolder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := skinsResponse{Skins: names, Active: cfg.ActiveSkin}
	if q := r.URL.Query().Get("q"); q != "" {
		resp.Suggestions = skin.Suggest(q, names, 5)
	}
	writeOK(w, resp)
}

type skinIniBody struct {
	Skin *skinini.Skin `json:"skin,omitempty"`
	Text string        `json:"text,omitempty"`
}

func (s *Server) handleGetSkinIni(w http.ResponseWriter, r *http.Request) {
	sk, err := s.app.Applier.ReadSkinIni()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, skinIniBody{Skin: sk, Text: skinini.Generate(sk)})
}

// handlePutSkinIni accepts either raw skin.ini text or the structured form.
// The file is always rewritten from the structured form.
func (s *Server) handlePutSkinIni(w http.ResponseWriter, r *http.Request) {
	var req skinIniBody
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	sk := req.Skin
	if req.Text != "" {
		parsed, err := skinini.Parse(req.Text)
		if err != nil {
			s.writeError(w, r, apperr.Invalid("parsing skin.ini: %v", err))
			return
		}
		sk = parsed
	}
	if sk == nil {
		s.writeError(w, r, apperr.Invalid("send either skin or text"))
		return
	}
	if err := sk.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Applier.WriteSkinIni(sk); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, skinIniBody{Skin: sk, Text: skinini.Generate(sk)})
}
