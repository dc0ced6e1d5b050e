package saavn

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"

	"github.com/tessro/auralyn/internal/core"
)

// toSong normalizes one catalog record. Records without an id are dropped.
func (r rawSong) toSong() (core.Song, bool) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return core.Song{}, false
	}

	name := r.Name
	if name == "" {
		name = r.Title
	}

	artists := r.artistNames()
	song := core.Song{
		ID:           id,
		Name:         clean(name),
		Artists:      artists,
		Artist:       strings.Join(artists, ", "),
		Album:        albumName(r.Album),
		Duration:     max(int(r.Duration), 0),
		Image:        bestImage(r.Image),
		DownloadURLs: downloadURLs(r.DownloadURL),
	}
	return song, true
}

func (r rawSong) artistNames() []string {
	var names []string
	if r.Artists != nil {
		for _, a := range r.Artists.Primary {
			if n := clean(a.Name); n != "" {
				names = append(names, n)
			}
		}
	}
	if len(names) > 0 {
		return names
	}
	for _, part := range strings.Split(r.PrimaryArtists, ",") {
		if n := clean(part); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// albumName accepts {"name": ...} or a bare string.
func albumName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return clean(obj.Name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return clean(s)
	}
	return ""
}

func links(raw json.RawMessage) []mediaLink {
	if len(raw) == 0 {
		return nil
	}
	var list []mediaLink
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
		return []mediaLink{{URL: s}}
	}
	return nil
}

// bestImage picks the largest artwork. Sizes are read from labels like
// "500x500"; unlabeled entries rank by position, so the last one wins.
func bestImage(raw json.RawMessage) string {
	best, bestSize := "", -1
	for _, l := range links(raw) {
		u := l.href()
		if u == "" {
			continue
		}
		size := imageSize(l.Quality)
		if size >= bestSize {
			best, bestSize = u, size
		}
	}
	return best
}

func imageSize(quality string) int {
	w, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(quality)), "x")
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0
	}
	return n
}

func downloadURLs(raw json.RawMessage) []core.MediaURL {
	var out []core.MediaURL
	for _, l := range links(raw) {
		if u := l.href(); u != "" {
			out = append(out, core.MediaURL{Quality: strings.TrimSpace(l.Quality), URL: u})
		}
	}
	return out
}

// clean undoes the HTML entity escaping the catalog applies to titles.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
