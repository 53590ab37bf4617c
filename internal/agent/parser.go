package agent

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	actionPattern      = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionOnlyPattern  = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)`)
	actionInputPattern = regexp.MustCompile(`(?s)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	thoughtPrefix      = regexp.MustCompile(`^\s*Thought\s*:\s*`)
)

// ParseError is returned when the model output fits neither an action nor a final answer
type ParseError struct {
	Reason string
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse LLM output (%s): `%s`", e.Reason, e.Output)
}

// parsed is one interpreted model turn
type parsed struct {
	Thought string
	Action  string
	Input   string
	Answer  string
	Final   bool
}

// parseOutput interprets a ReAct turn
func parseOutput(text string) (parsed, error) {
	if idx := strings.Index(text, "\n"+observationMarker); idx >= 0 {
		text = text[:idx]
	}

	includesAnswer := strings.Contains(text, finalAnswerMarker)

	if m := actionPattern.FindStringSubmatchIndex(text); m != nil {
		if includesAnswer {
			return parsed{}, &ParseError{Reason: "produced both a final answer and a parse-able action", Output: text}
		}
		action := strings.TrimSpace(text[m[2]:m[3]])
		input := strings.Trim(strings.TrimSpace(text[m[4]:m[5]]), `"`)
		return parsed{
			Thought: extractThought(text[:m[0]]),
			Action:  action,
			Input:   input,
		}, nil
	}

	if includesAnswer {
		idx := strings.LastIndex(text, finalAnswerMarker)
		return parsed{
			Thought: extractThought(text[:strings.Index(text, finalAnswerMarker)]),
			Answer:  strings.TrimSpace(text[idx+len(finalAnswerMarker):]),
			Final:   true,
		}, nil
	}

	switch {
	case !actionOnlyPattern.MatchString(text):
		return parsed{}, &ParseError{Reason: "missing 'Action:' after 'Thought:'", Output: text}
	case !actionInputPattern.MatchString(text):
		return parsed{}, &ParseError{Reason: "missing 'Action Input:' after 'Action:'", Output: text}
	default:
		return parsed{}, &ParseError{Reason: "unrecognised format", Output: text}
	}
}

func extractThought(s string) string {
	return strings.TrimSpace(thoughtPrefix.ReplaceAllString(s, ""))
}
