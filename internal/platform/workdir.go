package platform

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWorkDirPrefix is prepended to every working directory name
const DefaultWorkDirPrefix = "yt-audio-"

// WorkDirFactory allocates request-scoped working directories under a base directory
type WorkDirFactory struct {
	baseDir string
	prefix  string
	logger  *zap.Logger
}

// NewWorkDirFactory creates a factory. An empty baseDir means os.TempDir().
func NewWorkDirFactory(baseDir, prefix string, logger *zap.Logger) *WorkDirFactory {
	if prefix == "" {
		prefix = DefaultWorkDirPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkDirFactory{
		baseDir: baseDir,
		prefix:  prefix,
		logger:  logger,
	}
}

// BaseDir returns the directory working directories are created in
func (f *WorkDirFactory) BaseDir() string {
	if f.baseDir == "" {
		return os.TempDir()
	}
	return f.baseDir
}

// Acquire creates a fresh, uniquely named directory. The tag is embedded in
// the name to make leftovers traceable to a request; an empty tag gets a
// random one.
func (f *WorkDirFactory) Acquire(tag string) (*WorkDir, error) {
	tag = sanitizeTag(tag)
	if tag == "" {
		tag = uuid.NewString()
	}
	if f.baseDir != "" {
		if err := CreateDirectoryIfNotExists(f.baseDir); err != nil {
			return nil, fmt.Errorf("failed to create base directory %s: %w", f.baseDir, err)
		}
	}
	path, err := os.MkdirTemp(f.baseDir, f.prefix+tag+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	f.logger.Debug("working directory acquired", zap.String("path", path))
	return &WorkDir{path: path, logger: f.logger}, nil
}

// sanitizeTag keeps only characters safe in a single path element
func sanitizeTag(tag string) string {
	var b strings.Builder
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// WorkDir is an exclusively owned directory removed exactly once
type WorkDir struct {
	path   string
	logger *zap.Logger
	once   sync.Once
}

// Path returns the directory location
func (w *WorkDir) Path() string {
	return w.path
}

// Release removes the directory and everything in it. Only the first call
// does any work. Failures are logged and swallowed.
func (w *WorkDir) Release() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		if err := os.RemoveAll(w.path); err != nil {
			w.logger.Warn("failed to remove working directory",
				zap.String("path", w.path), zap.Error(err))
			return
		}
		w.logger.Debug("working directory removed", zap.String("path", w.path))
	})
}
