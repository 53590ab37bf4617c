package agent

import (
	"fmt"
	"strings"
)

const (
	finalAnswerMarker = "Final Answer:"
	observationMarker = "Observation:"
)

// stopSequences halt generation before the model writes its own observation
var stopSequences = []string{"\n" + observationMarker, "\n\t" + observationMarker}

const reactTemplate = `Answer the following questions as best you can. You have access to the following tools:

%s

Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%s]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

Begin!

Question: %s
Thought:%s`

// buildPrompt renders the zero-shot ReAct prompt with the scratchpad so far
func buildPrompt(tools []Tool, input string, history []round) string {
	var desc strings.Builder
	for i, t := range tools {
		if i > 0 {
			desc.WriteByte('\n')
		}
		fmt.Fprintf(&desc, "%s: %s", t.Name(), t.Description())
	}
	return fmt.Sprintf(reactTemplate, desc.String(), toolNames(tools), input, scratchpad(history))
}

// scratchpad replays earlier rounds verbatim so the model continues its own trace
func scratchpad(history []round) string {
	var b strings.Builder
	for _, r := range history {
		b.WriteString(r.log)
		b.WriteString("\n" + observationMarker + " ")
		b.WriteString(r.step.Observation)
		b.WriteString("\nThought: ")
	}
	return b.String()
}
