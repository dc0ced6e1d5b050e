package core

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// MediaURL is one quality variant of a song's audio.
type MediaURL struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Song represents a playable catalog entry.
type Song struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Artist       string     `json:"artist"`
	Artists      []string   `json:"artists,omitempty"`
	Album        string     `json:"album,omitempty"`
	Duration     int        `json:"duration"`
	Image        string     `json:"image,omitempty"`
	URL          string     `json:"url,omitempty"`
	DownloadURLs []MediaURL `json:"downloadUrl,omitempty"`
}

// Clone returns a copy that shares no slices with s.
func (s Song) Clone() Song {
	s.Artists = slices.Clone(s.Artists)
	s.DownloadURLs = slices.Clone(s.DownloadURLs)
	return s
}

// Length returns the catalog duration, or 0 if unknown.
func (s *Song) Length() time.Duration {
	if s == nil || s.Duration <= 0 {
		return 0
	}
	return time.Duration(s.Duration) * time.Second
}

// ResolveURL picks the address to hand to a transport. An explicit URL wins;
// otherwise the highest bitrate variant is used.
func (s *Song) ResolveURL() (string, bool) {
	if s == nil {
		return "", false
	}
	if u := strings.TrimSpace(s.URL); u != "" {
		return u, true
	}

	best := -1
	bestRate := -1
	for i, m := range s.DownloadURLs {
		if strings.TrimSpace(m.URL) == "" {
			continue
		}
		rate := Bitrate(m.Quality)
		if rate > bestRate {
			best, bestRate = i, rate
		}
	}
	if best < 0 {
		return "", false
	}
	return strings.TrimSpace(s.DownloadURLs[best].URL), true
}

// Bitrate parses a quality label like "320kbps" into kilobits per second.
// Labels without a leading number rank as 0.
func Bitrate(quality string) int {
	q := strings.TrimSpace(strings.ToLower(quality))
	end := 0
	for end < len(q) && q[end] >= '0' && q[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(q[:end])
	if err != nil {
		return 0
	}
	return n
}
