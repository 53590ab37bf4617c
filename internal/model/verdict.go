package model

import "time"

// TimestampLayout formats verdict completion times as HH:MM:SS DD/MM/YYYY
const TimestampLayout = "15:04:05 02/01/2006"

// Verdict is the agent's answer for a claim.
// Markdown is displayed verbatim and never parsed.
type Verdict struct {
	Claim       string    `json:"claim"`
	Markdown    string    `json:"markdown"`
	Model       string    `json:"model"`
	Steps       []Step    `json:"steps,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// Timestamp returns CompletedAt in the display layout
func (v Verdict) Timestamp() string {
	return v.CompletedAt.Format(TimestampLayout)
}

// Step is one thought/action/observation round of the reasoning loop
type Step struct {
	Thought     string `json:"thought,omitempty"`
	Action      string `json:"action,omitempty"`
	ActionInput string `json:"action_input,omitempty"`
	Observation string `json:"observation,omitempty"`
}
