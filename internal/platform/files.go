package platform

import (
	"os"
	"regexp"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Default values
const (
	DefaultTitle = "audio"
)

// File extensions left behind by interrupted or in-flight downloads
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp"}
)

var invalidFileNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// SanitizeFilename removes characters that are not allowed in file names on
// common filesystems. An empty result falls back to DefaultTitle.
func SanitizeFilename(name string) string {
	cleaned := invalidFileNameChars.ReplaceAllString(name, "")
	cleaned = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return DefaultTitle
	}
	return cleaned
}

// IsPartialDownload reports whether the file name belongs to an unfinished download
func IsPartialDownload(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
