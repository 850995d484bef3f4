package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/shared"
)

var _ list.Item = videoItem{}

// videoItem wraps [models.PlaylistVideo] to implement [list.Item].
type videoItem struct {
	video models.PlaylistVideo
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	desc := shared.FormatDuration(i.video.Duration)
	if i.video.ColorMode != "" && i.video.ColorMode != models.ColorModeColor {
		desc = fmt.Sprintf("%s • %s", desc, i.video.ColorMode)
	}
	if i.video.URL != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.video.URL)
	}
	return desc
}

func videoItems(videos []models.PlaylistVideo) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v}
	}
	return items
}
