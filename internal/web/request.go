package web

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/ocr"
	"github.com/ppiankov/factcheck/internal/session"
	"go.uber.org/zap"
)

var errUnsupportedUpload = errors.New("unsupported image type")

// session returns the caller's session, issuing a cookie for new ones
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(s.config.Session.CookieName); err == nil {
		id = c.Value
	}

	sess, created := s.store.GetOrCreate(id)
	if created {
		s.logger.Debug("session created", zap.String("session", shortID(sess.ID)), zap.Int("sessions", s.store.Len()))
	}

	// Refresh on every request so the browser and the store expire together
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.config.Session.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// parseForm reads a multipart or urlencoded body capped at MaxUploadBytes.
// On failure it writes the response and returns false.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	limit := s.config.Server.MaxUploadBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	err := r.ParseMultipartForm(limit)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
		s.renderPage(w, http.StatusRequestEntityTooLarge, pageData{View: sess.View(), Notice: s.msg.TooLarge, Level: "error"})
		return false
	}
	s.logger.Debug("bad form", zap.Error(err))
	http.Error(w, "bad request", http.StatusBadRequest)
	return false
}

// storeCredentials saves the keys typed into the form. A blank field keeps
// the key already held by the session.
func (s *Server) storeCredentials(r *http.Request, sess *session.Session) {
	typed := credentialsFrom(r)
	if typed.LLMKey == "" && typed.SearchKey == "" {
		return
	}
	creds := sess.Credentials()
	if typed.LLMKey != "" {
		creds.LLMKey = typed.LLMKey
	}
	if typed.SearchKey != "" {
		creds.SearchKey = typed.SearchKey
	}
	sess.SetCredentials(creds)
}

// upload decodes the image field and returns it with a data URL for the
// inline preview. errNoUpload means none was attached.
func (s *Server) upload(r *http.Request) (image.Image, template.URL, error) {
	if r.MultipartForm == nil {
		return nil, "", errNoUpload
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", errNoUpload
		}
		return nil, "", &ocr.ProcessingError{Op: "read upload", Err: err}
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, "", errNoUpload
	}
	if !ocr.SupportedFilename(header.Filename) {
		return nil, "", fmt.Errorf("%w: %s", errUnsupportedUpload, header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", &ocr.ProcessingError{Op: "read upload", Err: err}
	}
	img, err := ocr.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return img, previewURL(data), nil
}

// previewURL embeds a decoded PNG or JPEG upload as a data URL
func previewURL(data []byte) template.URL {
	mime := http.DetectContentType(data)
	if mime != "image/png" && mime != "image/jpeg" {
		return ""
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// credentialsFrom is the credential pair the form would produce on its own
func credentialsFrom(r *http.Request) model.Credentials {
	return model.Credentials{
		LLMKey:    strings.TrimSpace(r.FormValue("openai_key")),
		SearchKey: strings.TrimSpace(r.FormValue("serpapi_key")),
	}
}
