// Package agent runs a zero-shot ReAct loop: the model alternates between a
// thought, a tool call and the tool's observation until it states a final answer.
// The loop is bounded by a step count and a wall-clock timeout.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
	"go.uber.org/zap"
)

const (
	// DefaultMaxSteps matches the iteration limit of common ReAct executors
	DefaultMaxSteps = 15

	// DefaultTimeout bounds a whole run
	DefaultTimeout = 2 * time.Minute

	maxLoggedObservation = 500
)

var (
	// ErrMaxSteps is returned when the model has not answered within the step budget
	ErrMaxSteps = errors.New("agent stopped due to iteration limit")

	// ErrTimeout is returned when the run exceeds its wall-clock budget
	ErrTimeout = errors.New("agent stopped due to time limit")
)

// Agent drives one provider and a fixed set of tools
type Agent struct {
	provider llm.Provider
	tools    []Tool
	byName   map[string]Tool
	maxSteps int
	timeout  time.Duration
	verbose  bool
	softFail bool
	logger   *zap.Logger
}

// Option configures an Agent
type Option func(*Agent)

// WithMaxSteps caps the number of thought/action rounds
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// WithTimeout caps the total run time; zero keeps the default
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithVerbose logs every step at info level
func WithVerbose(v bool) Option {
	return func(a *Agent) { a.verbose = v }
}

// WithToolErrorsAsObservations feeds tool failures back to the model as
// "Error: ..." observations instead of ending the run
func WithToolErrorsAsObservations(v bool) Option {
	return func(a *Agent) { a.softFail = v }
}

// WithLogger sets the step-trace logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an agent. At least one tool is required and names must be unique.
func New(provider llm.Provider, tools []Tool, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, fmt.Errorf("agent requires an LLM provider")
	}
	if len(tools) == 0 {
		return nil, fmt.Errorf("agent requires at least one tool")
	}

	a := &Agent{
		provider: provider,
		tools:    tools,
		byName:   make(map[string]Tool, len(tools)),
		maxSteps: DefaultMaxSteps,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, t := range tools {
		if _, dup := a.byName[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool name: %s", t.Name())
		}
		a.byName[t.Name()] = t
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Result is the outcome of a completed run
type Result struct {
	Output string
	Steps  []model.Step
	Model  string
}

// round pairs a step with the raw model text it came from
type round struct {
	step model.Step
	log  string
}

// Run answers input, calling tools as the model requests
func (a *Agent) Run(ctx context.Context, input string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var history []round
	modelName := a.provider.Model()

	for i := 1; i <= a.maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, a.stopped(err)
		}

		resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
			Messages: []llm.Message{{Role: llm.RoleUser, Content: buildPrompt(a.tools, input, history)}},
			Stop:     stopSequences,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, a.stopped(ctxErr)
			}
			return nil, fmt.Errorf("agent step %d: %w", i, err)
		}
		if resp.Model != "" {
			modelName = resp.Model
		}

		turn, err := parseOutput(resp.Content)
		if err != nil {
			return nil, fmt.Errorf("agent step %d: %w", i, err)
		}

		if turn.Final {
			a.trace("agent finished",
				zap.Int("step", i),
				zap.String("thought", turn.Thought),
				zap.Int("answer_chars", len(turn.Answer)))
			return &Result{Output: turn.Answer, Steps: steps(history), Model: modelName}, nil
		}

		observation, err := a.act(ctx, turn.Action, turn.Input)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, a.stopped(ctxErr)
			}
			return nil, fmt.Errorf("agent step %d: %w", i, err)
		}

		a.trace("agent step",
			zap.Int("step", i),
			zap.String("thought", turn.Thought),
			zap.String("action", turn.Action),
			zap.String("action_input", turn.Input),
			zap.String("observation", truncate(observation, maxLoggedObservation)))

		history = append(history, round{
			step: model.Step{
				Thought:     turn.Thought,
				Action:      turn.Action,
				ActionInput: turn.Input,
				Observation: observation,
			},
			log: strings.TrimRight(resp.Content, " \n"),
		})
	}

	return nil, fmt.Errorf("%w after %d steps", ErrMaxSteps, a.maxSteps)
}

// act runs the requested tool. An unknown tool name is reported back to the
// model; tool failures end the run unless soft failure is enabled.
func (a *Agent) act(ctx context.Context, action, input string) (string, error) {
	tool, ok := a.byName[action]
	if !ok {
		return fmt.Sprintf("%s is not a valid tool, try one of [%s].", action, toolNames(a.tools)), nil
	}

	out, err := tool.Run(ctx, input)
	if err != nil {
		a.logger.Warn("tool failed", zap.String("tool", action), zap.Error(err))
		if a.softFail && ctx.Err() == nil {
			return "Error: " + err.Error(), nil
		}
		return "", fmt.Errorf("tool %s: %w", action, err)
	}
	return out, nil
}

func (a *Agent) stopped(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", ErrTimeout, a.timeout, err)
	}
	return err
}

func (a *Agent) trace(msg string, fields ...zap.Field) {
	if a.verbose {
		a.logger.Info(msg, fields...)
		return
	}
	a.logger.Debug(msg, fields...)
}

func steps(history []round) []model.Step {
	out := make([]model.Step, len(history))
	for i, r := range history {
		out[i] = r.step
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
