// Package resolve turns a claim into a verdict by running a search-equipped
// ReAct agent against the configured chat model
package resolve

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/agent"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/search"
	"github.com/ppiankov/factcheck/internal/util"
	"go.uber.org/zap"
)

// ErrEmptyClaim is returned when there is nothing to verify
var ErrEmptyClaim = errors.New("claim is empty")

// ProviderFactory builds a chat model for one LLM key
type ProviderFactory func(apiKey string) (llm.Provider, error)

// SearcherFactory builds a search backend for one search key
type SearcherFactory func(apiKey string) (search.Searcher, error)

// Expander optionally replaces a claim, such as a bare link, with richer text
type Expander interface {
	Expand(ctx context.Context, claim string) (string, bool)
}

// Resolver builds a fresh agent per claim so no client or key outlives its request
type Resolver struct {
	config      *model.Config
	logger      *zap.Logger
	newProvider ProviderFactory
	newSearcher SearcherFactory
	expander    Expander
	now         func() time.Time
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger for resolution and agent tracing
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProviderFactory replaces the OpenAI client construction
func WithProviderFactory(f ProviderFactory) Option {
	return func(r *Resolver) { r.newProvider = f }
}

// WithSearcherFactory replaces the SerpAPI client construction
func WithSearcherFactory(f SearcherFactory) Option {
	return func(r *Resolver) { r.newSearcher = f }
}

// WithExpander enables claim expansion before the instruction is built
func WithExpander(e Expander) Option {
	return func(r *Resolver) { r.expander = e }
}

// WithClock overrides the completion timestamp source
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver creates a resolver from configuration
func NewResolver(cfg *model.Config, opts ...Option) *Resolver {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	r := &Resolver{
		config: cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.newProvider == nil {
		r.newProvider = r.defaultProvider
	}
	if r.newSearcher == nil {
		authority := search.NewAuthorityClassifier(&cfg.Authority)
		httpClient := util.NewHTTPClient(cfg.Search.Timeout, cfg.HTTP)
		r.newSearcher = func(apiKey string) (search.Searcher, error) {
			return search.NewClient(httpClient, apiKey, cfg.Search, authority)
		}
	}
	return r
}

func (r *Resolver) defaultProvider(apiKey string) (llm.Provider, error) {
	httpClient := util.NewHTTPClient(r.config.LLM.Timeout, r.config.HTTP)
	p, err := llm.NewProvider(llm.ConfigFromModel(r.config.LLM, apiKey, httpClient))
	if err != nil {
		return nil, err
	}
	if op, ok := p.(*llm.OpenAIProvider); ok {
		op.WithLogger(r.logger)
	}
	return p, nil
}

// Resolve verifies one claim with the given credentials.
// Every failure is returned as a *ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, claim string, creds model.Credentials) (*model.Verdict, error) {
	if err := creds.Validate(); err != nil {
		return nil, newResolutionError(err)
	}
	if strings.TrimSpace(claim) == "" {
		return nil, newResolutionError(ErrEmptyClaim)
	}

	searcher, err := r.newSearcher(creds.SearchKey)
	if err != nil {
		return nil, newResolutionError(wrap("create search tool", err))
	}
	provider, err := r.newProvider(creds.LLMKey)
	if err != nil {
		return nil, newResolutionError(wrap("create LLM client", err))
	}

	tool := agent.NewTool(search.ToolName, search.ToolDescription, searcher.Search)
	a, err := agent.New(provider, []agent.Tool{tool},
		agent.WithMaxSteps(r.config.Agent.MaxSteps),
		agent.WithTimeout(r.config.Agent.Timeout),
		agent.WithVerbose(r.config.Agent.Verbose),
		agent.WithToolErrorsAsObservations(r.config.Agent.ToolErrorsAsObservations),
		agent.WithLogger(r.logger),
	)
	if err != nil {
		return nil, newResolutionError(wrap("create agent", err))
	}

	// Link expansion and the reasoning run share one wall-clock budget
	timeout := r.config.Agent.Timeout
	if timeout <= 0 {
		timeout = agent.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	input := claim
	if r.expander != nil {
		if expanded, ok := r.expander.Expand(ctx, claim); ok {
			input = expanded
		}
	}

	instruction, err := BuildInstruction(input, r.config.Prompt.Language)
	if err != nil {
		return nil, newResolutionError(err)
	}

	start := time.Now()
	r.logger.Info("resolving claim",
		zap.Int("claim_chars", len(claim)),
		zap.String("model", provider.Model()))

	res, err := a.Run(ctx, instruction)
	if err != nil {
		rerr := newResolutionError(err)
		r.logger.Warn("resolution failed",
			zap.Stringer("kind", rerr.Kind),
			zap.String("cause", string(rerr.Cause)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, rerr
	}

	r.logger.Info("claim resolved",
		zap.Int("steps", len(res.Steps)),
		zap.Duration("elapsed", time.Since(start)))

	return &model.Verdict{
		Claim:       claim,
		Markdown:    res.Output,
		Model:       res.Model,
		Steps:       res.Steps,
		CompletedAt: r.now(),
	}, nil
}
