package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
)

// probeOutput is the subset of yt-dlp's single JSON dump we use
type probeOutput struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Chapters []probeChapter `json:"chapters"`
}

type probeChapter struct {
	Title     string  `json:"title"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// parseProbeOutput converts yt-dlp --dump-single-json output into MediaInfo
func parseProbeOutput(output string) (*model.MediaInfo, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, fmt.Errorf("empty metadata output")
	}

	var data probeOutput
	if err := json.Unmarshal([]byte(output), &data); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	info := &model.MediaInfo{Title: strings.TrimSpace(data.Title)}
	if info.Title == "" {
		info.Title = platform.DefaultTitle
	}

	for i, ch := range data.Chapters {
		info.Chapters = append(info.Chapters, model.ChapterInfo{
			Index:     i,
			Title:     strings.TrimSpace(ch.Title),
			StartTime: ch.StartTime,
			EndTime:   ch.EndTime,
		})
	}

	return info, nil
}
