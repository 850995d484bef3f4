// package formatter renders queue snapshots and play history as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/playlist"
	"github.com/desertthunder/lightness/internal/shared"
)

// Format names accepted by [Render].
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Render converts a queue snapshot to the requested format.
func Render(state playlist.State, f Format, pretty bool) ([]byte, error) {
	switch f {
	case FormatText, "":
		return QueueToText(state)
	case FormatMarkdown:
		return QueueToMarkdown(state)
	case FormatCSV:
		return QueueToCSV(state)
	case FormatJSON:
		return QueueToJSON(state, pretty)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// QueueToText renders the now playing line followed by a numbered list of queued videos.
func QueueToText(state playlist.State) ([]byte, error) {
	var buf bytes.Buffer
	current := models.FindPlaying(state.Videos)
	queued := models.FilterQueued(state.Videos)

	buf.WriteString(fmt.Sprintf("Now playing: %s\n", nowPlaying(state, current)))
	buf.WriteString(fmt.Sprintf("Queued: %d\n", len(queued)))

	if len(queued) > 0 {
		buf.WriteString("\n")
	}
	for i, v := range queued {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, v.Title, shared.FormatDuration(v.Duration)))
	}

	return buf.Bytes(), nil
}

// QueueToMarkdown renders the queue as a Markdown document.
func QueueToMarkdown(state playlist.State) ([]byte, error) {
	var buf bytes.Buffer
	current := models.FindPlaying(state.Videos)
	queued := models.FilterQueued(state.Videos)

	buf.WriteString("# Queue\n\n")
	if current != nil {
		buf.WriteString(fmt.Sprintf("**Now playing**: [%s](%s) (%s)\n\n", current.Title, current.URL, current.ColorMode))
	} else {
		buf.WriteString(fmt.Sprintf("**Now playing**: %s\n\n", nowPlaying(state, nil)))
	}

	if len(queued) == 0 {
		buf.WriteString("_Empty queue_\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("## Up next\n\n")
	for i, v := range queued {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s) [%s]\n", i+1, v.Title, v.URL, shared.FormatDuration(v.Duration)))
	}

	return buf.Bytes(), nil
}

// QueueToCSV converts the queue to CSV with columns: ID, Title, URL, Status, ColorMode, Duration
func QueueToCSV(state playlist.State) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "URL", "Status", "ColorMode", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range state.Videos {
		record := []string{
			strconv.FormatInt(v.ID, 10),
			v.Title,
			v.URL,
			v.Status.String(),
			string(v.ColorMode),
			strconv.Itoa(v.Duration),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

type queueDocument struct {
	Loading bool                   `json:"loading"`
	Current *models.PlaylistVideo  `json:"current"`
	Queued  []models.PlaylistVideo `json:"queued"`
}

// QueueToJSON renders the partitioned queue as JSON.
func QueueToJSON(state playlist.State, pretty bool) ([]byte, error) {
	doc := queueDocument{
		Loading: state.Loading,
		Current: models.FindPlaying(state.Videos),
		Queued:  models.FilterQueued(state.Videos),
	}

	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(doc, "", "  ")
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal queue: %w", err)
	}
	return append(out, '\n'), nil
}

// HistoryToText renders history entries, newest first, with their start times in loc.
func HistoryToText(entries []*models.HistoryEntry, loc *time.Location) []byte {
	var buf bytes.Buffer
	if len(entries) == 0 {
		buf.WriteString("No history recorded yet.\n")
		return buf.Bytes()
	}
	if loc == nil {
		loc = time.Local
	}

	for _, e := range entries {
		buf.WriteString(fmt.Sprintf("%s  #%d  %s\n", e.StartedAt().In(loc).Format("2006-01-02 15:04:05"), e.VideoID(), e.Title()))
	}
	return buf.Bytes()
}

func nowPlaying(state playlist.State, current *models.PlaylistVideo) string {
	if current != nil {
		return current.Title
	}
	return playlist.Label(playlist.State{Loading: state.Loading})
}
