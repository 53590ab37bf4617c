package web

import (
	"errors"
	"fmt"
	"html/template"
	"image"
	"net/http"
	"strings"

	"github.com/ppiankov/factcheck/internal/fetch"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/ocr"
	"github.com/ppiankov/factcheck/internal/resolve"
	"github.com/ppiankov/factcheck/internal/session"
	"go.uber.org/zap"
)

// errNoUpload means the request carried no image file
var errNoUpload = errors.New("no image uploaded")

// pageData feeds templates/index.html
type pageData struct {
	Msg         messages
	View        session.View
	ClaimText   string
	Notice      string
	Level       string
	VerdictHTML template.HTML
	Timestamp   string
	Preview     template.URL // data URL of this request's upload
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.render(w, http.StatusOK, sess.View(), "")
}

// handleExtract runs OCR on the uploaded image and shows the result read-only
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if !s.parseForm(w, r, sess) {
		return
	}
	s.storeCredentials(r, sess)

	if err := sess.Begin(session.StateExtracting); err != nil {
		s.busy(w, sess)
		return
	}

	img, preview, err := s.upload(r)
	if err != nil {
		if errors.Is(err, errNoUpload) {
			sess.Warn(s.msg.NoImage)
		} else {
			sess.ClearExtraction()
			sess.Fail(s.ocrMessage(err))
		}
		s.render(w, http.StatusOK, sess.View(), "")
		return
	}

	s.extract(r, sess, img, session.StateReady)
	s.render(w, http.StatusOK, sess.View(), preview)
}

// handleVerify stores the keys, optionally extracts an attached image, then resolves
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if !s.parseForm(w, r, sess) {
		return
	}
	s.storeCredentials(r, sess)

	img, preview, uploadErr := s.upload(r)
	hasImage := !errors.Is(uploadErr, errNoUpload)

	first := session.StateResolving
	if hasImage {
		first = session.StateExtracting
	}
	if err := sess.Begin(first); err != nil {
		s.busy(w, sess)
		return
	}

	claim := model.Claim{Text: r.FormValue("claim"), Source: model.ClaimSourceText}
	if hasImage {
		if uploadErr != nil {
			sess.ClearExtraction()
			sess.Fail(s.ocrMessage(uploadErr))
			s.render(w, http.StatusOK, sess.View(), "")
			return
		}
		text, ok := s.extract(r, sess, img, session.StateResolving)
		if !ok {
			s.render(w, http.StatusOK, sess.View(), preview)
			return
		}
		// The image wins over typed text
		claim = model.Claim{Text: text, Source: model.ClaimSourceImage}
	} else if claim.IsEmpty() && sess.View().Extracted != "" {
		// Text extracted earlier is verified when nothing new was typed
		claim = model.Claim{Text: sess.View().Extracted, Source: model.ClaimSourceImage}
	} else {
		if link, ok := fetch.LinkURL(claim.Text); ok {
			claim.Source = model.ClaimSourceLink
			claim.URL = link
		}
		sess.SetClaim(claim)
	}

	creds := sess.Credentials()
	if err := creds.Validate(); err != nil {
		sess.Fail(s.msg.MissingKeys)
		s.render(w, http.StatusOK, sess.View(), preview)
		return
	}
	if claim.IsEmpty() {
		sess.Warn(s.msg.EmptyClaim)
		s.render(w, http.StatusOK, sess.View(), preview)
		return
	}

	verdict, err := s.resolver.Resolve(r.Context(), claim.Text, creds)
	if err != nil {
		s.logger.Warn("verification failed", zap.String("session", shortID(sess.ID)), zap.Error(err))
		sess.Fail(s.resolveMessage(err))
		s.render(w, http.StatusOK, sess.View(), preview)
		return
	}

	sess.Resolved(verdict)
	s.render(w, http.StatusOK, sess.View(), preview)
}

// extract runs OCR and records the outcome on the session. It reports false
// when the interaction must stop: an OCR failure or an image without text.
func (s *Server) extract(r *http.Request, sess *session.Session, img image.Image, next session.State) (string, bool) {
	if s.extractor == nil {
		sess.ClearExtraction()
		sess.Fail(s.msg.OCRUnavailable)
		return "", false
	}

	text, err := s.extractor.ExtractText(r.Context(), img)
	if err != nil {
		s.logger.Warn("image extraction failed", zap.String("session", shortID(sess.ID)), zap.Error(err))
		sess.ClearExtraction()
		sess.Fail(s.ocrMessage(err))
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		sess.ClearExtraction()
		sess.Warn(s.msg.NoText)
		return "", false
	}

	sess.Extracted(text, next)
	return text, true
}

func (s *Server) ocrMessage(err error) string {
	var perr *ocr.ProcessingError
	switch {
	case errors.Is(err, ocr.ErrEngineUnavailable):
		return s.msg.OCRUnavailable
	case errors.Is(err, errUnsupportedUpload):
		return s.msg.UnsupportedImg
	case errors.As(err, &perr):
		return s.msg.OCRError + perr.Err.Error()
	default:
		return s.msg.OCRError + err.Error()
	}
}

func (s *Server) resolveMessage(err error) string {
	if resolve.IsTimeout(err) {
		return s.msg.Timeout
	}
	if errors.Is(err, model.ErrMissingCredentials) {
		return s.msg.MissingKeys
	}
	return fmt.Sprintf(s.msg.ResolveError, err.Error())
}

func (s *Server) busy(w http.ResponseWriter, sess *session.Session) {
	view := sess.View()
	s.renderPage(w, http.StatusConflict, pageData{View: view, Notice: s.msg.Busy, Level: "warning"})
}

// render shows view with the notice its state implies. preview is the
// uploaded image of this request, if any.
func (s *Server) render(w http.ResponseWriter, status int, view session.View, preview template.URL) {
	level := ""
	switch view.State {
	case session.StateWarning:
		level = "warning"
	case session.StateError:
		level = "error"
	case session.StateResolved:
		level = "success"
		view.Message = s.msg.Done
	}
	s.renderPage(w, status, pageData{View: view, Notice: view.Message, Level: level, Preview: preview})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	data.Msg = s.msg
	if data.View.Claim.Source != model.ClaimSourceImage {
		data.ClaimText = data.View.Claim.Text
	}
	if v := data.View.Verdict; v != nil {
		data.VerdictHTML = s.renderMarkdown(v.Markdown)
		data.Timestamp = v.Timestamp()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
