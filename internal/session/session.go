// Package session keeps per-browser UI state, including the user's API keys,
// in memory only.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// ErrBusy is returned when a session is already extracting or resolving
var ErrBusy = errors.New("session is busy")

// State is the position of a session in the verification flow
type State int

const (
	StateIdle State = iota
	StateExtracting
	StateReady
	StateWarning
	StateResolving
	StateResolved
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StateReady:
		return "ready"
	case StateWarning:
		return "warning"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Busy reports whether the state is an in-flight operation
func (s State) Busy() bool {
	return s == StateExtracting || s == StateResolving
}

// Session is the state of one browser. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu        sync.Mutex
	creds     model.Credentials
	state     State
	claim     model.Claim
	extracted string
	verdict   *model.Verdict
	message   string
	updated   time.Time
}

// View is a read-only copy for rendering. It never carries key material.
type View struct {
	ID           string
	State        State
	Claim        model.Claim
	Extracted    string
	Verdict      *model.Verdict
	Message      string
	HasLLMKey    bool
	HasSearchKey bool
	Updated      time.Time
}

func newSession(id string) *Session {
	return &Session{ID: id, state: StateIdle, updated: time.Now()}
}

// Begin moves the session into an in-flight state. A previous warning or
// error is cleared so the new interaction starts clean.
func (s *Session) Begin(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Busy() {
		return ErrBusy
	}
	s.state = next
	s.message = ""
	if next == StateResolving {
		s.verdict = nil
	}
	s.updated = time.Now()
	return nil
}

// SetCredentials replaces the session's keys
func (s *Session) SetCredentials(creds model.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
}

// Credentials returns the session's keys
func (s *Session) Credentials() model.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// SetClaim records the claim about to be resolved without changing state
func (s *Session) SetClaim(claim model.Claim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claim = claim
	if claim.Source != model.ClaimSourceImage {
		s.extracted = ""
	}
}

// Extracted stores OCR output as the image claim and moves to next: ready
// when the user reviews the text first, resolving when verification follows
// in the same interaction
func (s *Session) Extracted(text string, next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extracted = text
	s.claim = model.Claim{Text: text, Source: model.ClaimSourceImage}
	s.state = next
	s.updated = time.Now()
}

// ClearExtraction drops text from an earlier image after an extraction
// yields nothing, so a later verify cannot resolve stale text
func (s *Session) ClearExtraction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extracted = ""
	s.claim = model.Claim{Source: model.ClaimSourceImage}
}

// Warn ends the current operation with a warning
func (s *Session) Warn(msg string) {
	s.finish(StateWarning, msg)
}

// Fail ends the current operation with an error
func (s *Session) Fail(msg string) {
	s.finish(StateError, msg)
}

// Resolved stores the verdict of a successful resolution
func (s *Session) Resolved(v *model.Verdict) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdict = v
	s.state = StateResolved
	s.message = ""
	s.updated = time.Now()
}

func (s *Session) finish(state State, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.message = msg
	s.updated = time.Now()
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns a snapshot for rendering
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:           s.ID,
		State:        s.state,
		Claim:        s.claim,
		Extracted:    s.extracted,
		Verdict:      s.verdict,
		Message:      s.message,
		HasLLMKey:    s.creds.LLMKey != "",
		HasSearchKey: s.creds.SearchKey != "",
		Updated:      s.updated,
	}
}
