package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// Resolver verifies a single claim
type Resolver interface {
	Resolve(ctx context.Context, claim string, creds model.Credentials) (*model.Verdict, error)
}

// ClaimJob resolves one claim from a batch
type ClaimJob struct {
	Index    int
	Claim    string
	Creds    model.Credentials
	Resolver Resolver
}

// Execute runs the resolution
func (j *ClaimJob) Execute(ctx context.Context) Result {
	start := time.Now()
	verdict, err := j.Resolver.Resolve(ctx, j.Claim, j.Creds)
	return &ClaimResult{
		Index:   j.Index,
		Claim:   j.Claim,
		Verdict: verdict,
		Error:   err,
		Elapsed: time.Since(start),
	}
}

// ClaimResult is the outcome of one claim
type ClaimResult struct {
	Index   int
	Claim   string
	Verdict *model.Verdict
	Error   error
	Elapsed time.Duration
}

// GetError returns the resolution error, if any
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor resolves claims concurrently. Claims share credentials but
// nothing else: each is an independent resolution.
type BatchProcessor struct {
	resolver    Resolver
	creds       model.Credentials
	concurrency int
	onResult    func(*ClaimResult)
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(resolver Resolver, creds model.Credentials, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		resolver:    resolver,
		creds:       creds,
		concurrency: concurrency,
	}
}

// OnResult registers a callback invoked as each claim finishes
func (b *BatchProcessor) OnResult(fn func(*ClaimResult)) {
	b.onResult = fn
}

// ProcessClaims resolves claims and returns results in input order.
// Claims not completed before ctx is cancelled are reported with ctx's error.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, claim := range claims {
			job := &ClaimJob{Index: i, Claim: claim, Creds: b.creds, Resolver: b.resolver}
			if !pool.Submit(job) {
				break
			}
		}
		pool.Close()
	}()

	results := make([]*ClaimResult, len(claims))
	for r := range pool.Results() {
		cr := r.(*ClaimResult)
		results[cr.Index] = cr
		if b.onResult != nil {
			b.onResult(cr)
		}
	}

	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &ClaimResult{Index: i, Claim: claims[i], Error: fmt.Errorf("not completed: %w", err)}
		}
	}

	return results
}

// ProcessFile reads claims from a file and resolves them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads one claim per line, skipping blank lines and
// # comments and removing duplicates
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
