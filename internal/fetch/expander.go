package fetch

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
	"go.uber.org/zap"
)

// ErrDisallowed is returned when robots.txt forbids the fetch
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Expander replaces a bare-link claim with the page's title and opening text
type Expander struct {
	fetcher    *Fetcher
	robots     *RobotsChecker
	limiter    *Limiter
	guard      *hostGuard // nil when private addresses are allowed
	maxExcerpt int
	logger     *zap.Logger
}

// NewExpander builds an expander from the links configuration
func NewExpander(cfg model.LinksConfig, httpCfg model.HTTPConfig, logger *zap.Logger) *Expander {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := util.NewHTTPClient(cfg.Timeout, httpCfg)
	var guard *hostGuard
	if !cfg.AllowPrivateAddresses {
		client = guardClient(client, httpCfg.HTTPProxy != "" || httpCfg.HTTPSProxy != "")
		guard = &hostGuard{resolver: net.DefaultResolver}
	}

	e := &Expander{
		fetcher:    NewFetcher(client, cfg.UserAgent, cfg.MaxBodyBytes),
		limiter:    NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		guard:      guard,
		maxExcerpt: cfg.MaxExcerptChars,
		logger:     logger,
	}
	if cfg.RespectRobots {
		e.robots = NewRobotsChecker(client, cfg.UserAgent)
	}
	return e
}

// LinkURL returns the claim as a URL when it is a single http(s) link
func LinkURL(claim string) (string, bool) {
	claim = strings.TrimSpace(claim)
	if claim == "" || strings.ContainsAny(claim, " \t\r\n") {
		return "", false
	}
	u, err := url.Parse(claim)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return u.String(), true
}

// Expand returns "<url>\n\n<title>\n<excerpt>" for link claims. Any failure
// leaves the claim unchanged.
func (e *Expander) Expand(ctx context.Context, claim string) (string, bool) {
	link, ok := LinkURL(claim)
	if !ok {
		return "", false
	}

	article, err := e.article(ctx, link)
	if err != nil {
		e.logger.Warn("link expansion failed", zap.String("url", link), zap.Error(err))
		return "", false
	}
	if article.Title == "" && len(article.Paragraphs) == 0 {
		e.logger.Warn("link expansion found no text", zap.String("url", link))
		return "", false
	}

	var b strings.Builder
	b.WriteString(link)
	b.WriteString("\n\n")
	b.WriteString(article.Title)
	if excerpt := article.Excerpt(e.maxExcerpt); excerpt != "" {
		b.WriteByte('\n')
		b.WriteString(excerpt)
	}

	e.logger.Info("link expanded",
		zap.String("url", link),
		zap.Int("paragraphs", len(article.Paragraphs)))
	return b.String(), true
}

func (e *Expander) article(ctx context.Context, link string) (*Article, error) {
	if e.guard != nil {
		u, err := url.Parse(link)
		if err != nil {
			return nil, err
		}
		if err := e.guard.check(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	var crawlDelay time.Duration
	if e.robots != nil {
		allowed, delay, err := e.robots.CanFetch(ctx, link)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrDisallowed
		}
		crawlDelay = delay
	}

	if err := e.limiter.Wait(ctx, link, crawlDelay); err != nil {
		return nil, err
	}

	page, err := e.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	return ExtractArticle(page.HTML)
}
