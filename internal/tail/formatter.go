package tail

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/auralyn/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An unparsable template is
// ignored; check it with ParseTemplate first.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl == "" {
			return
		}
		if t, err := template.New("format").Parse(tmpl); err == nil {
			f.template = t
		}
	}
}

// ParseTemplate checks a --format template.
func ParseTemplate(tmpl string) error {
	_, err := template.New("format").Parse(tmpl)
	return err
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e))
	}
	parts = append(parts, eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if e.Current != nil {
		if s := e.Current.State.Song; s != nil {
			data.Title = s.Name
			data.Artist = s.Artist
			data.Album = s.Album
			data.ID = s.ID
		}
		data.Volume = volumePercent(e.Current.State.Volume)
		data.Muted = e.Current.State.Muted
		data.Shuffle = e.Current.Mode.Shuffle
		data.Repeat = string(e.Current.Mode.Repeat)
		data.QueueLen = e.Current.Queue.Len()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	ID        string
	Title     string
	Artist    string
	Album     string
	Volume    int
	Muted     bool
	Shuffle   bool
	Repeat    string
	QueueLen  int
}

func volumePercent(v float64) int {
	return int(math.Round(v * 100))
}

func songLabel(s *core.Song) string {
	if s.Artist == "" {
		return s.Name
	}
	return fmt.Sprintf("%s - %s", s.Artist, s.Name)
}

func eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if e.Current != nil && e.Current.State.Song != nil {
			return "Now playing: " + songLabel(e.Current.State.Song)
		}
		return "Stopped"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", volumePercent(e.Current.State.Volume))
		}
		return "Volume changed"

	case EventMuteChange:
		if e.Current != nil && e.Current.State.Muted {
			return "Muted"
		}
		return "Unmuted"

	case EventModeChange:
		if e.Current != nil {
			shuffle := "off"
			if e.Current.Mode.Shuffle {
				shuffle = "on"
			}
			return fmt.Sprintf("Shuffle: %s, repeat: %s", shuffle, e.Current.Mode.Repeat)
		}
		return "Mode changed"

	case EventQueueChange:
		if e.Current != nil {
			return fmt.Sprintf("Queue: %d songs", e.Current.Queue.Len())
		}
		return "Queue changed"

	default:
		return "Unknown event"
	}
}

func eventEmoji(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if e.Current == nil || e.Current.State.Song == nil {
			return "⏹️"
		}
		return "🎵"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventVolumeChange:
		return "🔊"
	case EventMuteChange:
		return "🔇"
	case EventModeChange:
		return "🔀"
	case EventQueueChange:
		return "📜"
	default:
		return "❓"
	}
}

func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventVolumeChange:
		return "volume_change"
	case EventMuteChange:
		return "mute_change"
	case EventModeChange:
		return "mode_change"
	case EventQueueChange:
		return "queue_change"
	default:
		return "unknown"
	}
}
