package extractor

import (
	"bufio"
	"errors"
	"strings"
)

// Operation names used in ExtractionError
const (
	OpProbe = "probe"
	OpFetch = "fetch"
)

// ErrUnsupportedSource matches extraction errors classified as an invalid or
// unsupported URL.
var ErrUnsupportedSource = errors.New("unsupported source URL")

// DefaultUnsupportedPatterns are substrings of extractor output that mark an
// invalid or unsupported URL.
var DefaultUnsupportedPatterns = []string{"not a valid URL", "Unsupported URL"}

const errorLinePrefix = "ERROR:"

// ExtractionError describes a failed extractor invocation
type ExtractionError struct {
	Op          string
	URL         string
	Err         error
	Output      string // extractor stderr, trimmed
	unsupported bool
}

// Error returns the extractor's own message: the last ERROR line it printed,
// or the underlying error. Op is left to logs.
func (e *ExtractionError) Error() string {
	if line := lastErrorLine(e.Output); line != "" {
		return line
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Op + " failed"
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUnsupportedSource) match classified errors
func (e *ExtractionError) Is(target error) bool {
	return target == ErrUnsupportedSource && e.unsupported
}

// Unsupported reports whether the URL was rejected by the extractor
func (e *ExtractionError) Unsupported() bool {
	return e.unsupported
}

// Classifier decides whether an error text means "invalid or unsupported URL"
type Classifier struct {
	patterns []string
}

// NewClassifier creates a classifier. No patterns means DefaultUnsupportedPatterns.
func NewClassifier(patterns []string) *Classifier {
	if len(patterns) == 0 {
		patterns = DefaultUnsupportedPatterns
	}
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return &Classifier{patterns: cleaned}
}

// MatchText reports whether the text contains any configured pattern
func (c *Classifier) MatchText(text string) bool {
	for _, p := range c.patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// IsUnsupported classifies any error. Classified extraction errors are
// trusted; everything else falls back to matching the error text.
func (c *Classifier) IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnsupportedSource) {
		return true
	}
	return c.MatchText(err.Error())
}

// newExtractionError builds and classifies an extraction error
func (c *Classifier) newExtractionError(op, url string, err error, stderr string) *ExtractionError {
	e := &ExtractionError{
		Op:     op,
		URL:    url,
		Err:    err,
		Output: strings.TrimSpace(stderr),
	}
	var text string
	if err != nil {
		text = err.Error()
	}
	e.unsupported = c.MatchText(text) || c.MatchText(e.Output)
	return e
}

// lastErrorLine returns the last line starting with "ERROR:" in output
func lastErrorLine(output string) string {
	var last string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, errorLinePrefix) {
			last = line
		}
	}
	return last
}
