package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const maxSlugLen = 48

// WriteReport writes one markdown file for r into dir and returns its path
func WriteReport(dir string, r *ClaimResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%03d-%s.md", r.Index+1, slug(r.Claim)))
	if err := os.WriteFile(path, []byte(RenderReport(r)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// RenderReport formats a claim result as markdown
func RenderReport(r *ClaimResult) string {
	var b strings.Builder
	b.WriteString("# Fact check\n\n")
	fmt.Fprintf(&b, "**Claim:** %s\n\n", r.Claim)

	if r.Error != nil {
		fmt.Fprintf(&b, "**Error:** %s\n", r.Error)
		return b.String()
	}

	v := r.Verdict
	fmt.Fprintf(&b, "**Checked:** %s  \n", v.Timestamp())
	fmt.Fprintf(&b, "**Model:** %s  \n", v.Model)
	fmt.Fprintf(&b, "**Steps:** %d\n\n", len(v.Steps))
	b.WriteString(strings.TrimSpace(v.Markdown))
	b.WriteByte('\n')

	if len(v.Steps) > 0 {
		b.WriteString("\n## Searches\n\n")
		for i, s := range v.Steps {
			fmt.Fprintf(&b, "%d. `%s`: %s\n", i+1, s.Action, s.ActionInput)
		}
	}
	return b.String()
}

// slug keeps ASCII letters and digits so file names stay portable
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "claim"
	}
	return out
}
