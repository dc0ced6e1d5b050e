package wizard

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/tessro/auralyn/internal/core"
)

// SongLabel is the one-line form used in pickers.
func SongLabel(s core.Song) string {
	label := s.Name
	if s.Artist != "" {
		label = fmt.Sprintf("%s — %s", s.Name, s.Artist)
	}
	if s.Duration > 0 {
		label += fmt.Sprintf(" (%d:%02d)", s.Duration/60, s.Duration%60)
	}
	return label
}

func songOptions(songs []core.Song) []huh.Option[int] {
	options := make([]huh.Option[int], 0, len(songs))
	for i, s := range songs {
		options = append(options, huh.NewOption(SongLabel(s), i))
	}
	return options
}

// PickSong shows a select over songs. A cancelled form returns nil.
func PickSong(title string, songs []core.Song) (*core.Song, error) {
	if len(songs) == 0 {
		return nil, nil
	}

	var selected int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(songOptions(songs)...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, fmt.Errorf("selection failed: %w", err)
	}

	song := songs[selected]
	return &song, nil
}
