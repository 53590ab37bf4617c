package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		ok    bool
	}{
		{"both present", Credentials{LLMKey: "sk-1", SearchKey: "serp-1"}, true},
		{"both empty", Credentials{}, false},
		{"llm missing", Credentials{SearchKey: "serp-1"}, false},
		{"search missing", Credentials{LLMKey: "sk-1"}, false},
		{"whitespace llm", Credentials{LLMKey: "   ", SearchKey: "serp-1"}, false},
		{"whitespace search", Credentials{LLMKey: "sk-1", SearchKey: "\t\n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	}
}

func TestCredentials_StringRedacts(t *testing.T) {
	c := Credentials{LLMKey: "sk-secret", SearchKey: ""}
	s := c.String()
	if strings.Contains(s, "sk-secret") {
		t.Errorf("String() leaked key: %s", s)
	}
	if !strings.Contains(s, "<empty>") {
		t.Errorf("expected empty marker, got %s", s)
	}
}

func TestClaim_IsEmpty(t *testing.T) {
	for _, text := range []string{"", " ", "\n\t  \n"} {
		if !(Claim{Text: text}).IsEmpty() {
			t.Errorf("expected %q to be empty", text)
		}
	}
	if (Claim{Text: " The sky is green "}).IsEmpty() {
		t.Error("expected non-empty claim")
	}
}

func TestVerdict_Timestamp(t *testing.T) {
	v := Verdict{CompletedAt: time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC)}
	if got := v.Timestamp(); got != "09:05:02 07/03/2024" {
		t.Errorf("unexpected timestamp: %s", got)
	}
}
