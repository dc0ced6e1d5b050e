package saavn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// searchResponse is the envelope returned by /api/search/songs.
type searchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Total   int               `json:"total"`
		Start   int               `json:"start"`
		Results []json.RawMessage `json:"results"`
	} `json:"data"`
}

// rawSong covers both the current catalog shape (artists.primary, image and
// downloadUrl with quality/url) and the older one (primaryArtists string,
// link fields).
type rawSong struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Title          string          `json:"title"`
	Duration       flexInt         `json:"duration"`
	Album          json.RawMessage `json:"album"`
	Artists        *rawArtists     `json:"artists"`
	PrimaryArtists string          `json:"primaryArtists"`
	Image          json.RawMessage `json:"image"`
	DownloadURL    json.RawMessage `json:"downloadUrl"`
}

type rawArtists struct {
	Primary []struct {
		Name string `json:"name"`
	} `json:"primary"`
}

// mediaLink is one entry of an image or downloadUrl list.
type mediaLink struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
	Link    string `json:"link"`
}

func (m mediaLink) href() string {
	if u := strings.TrimSpace(m.URL); u != "" {
		return u
	}
	return strings.TrimSpace(m.Link)
}

// flexInt accepts 212, "212" and null.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("duration %q: %w", s, err)
		}
		*f = flexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// APIError is a non-2xx or success=false answer from the catalog.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("saavn API error %d", e.Status)
	}
	return fmt.Sprintf("saavn API error %d: %s", e.Status, e.Message)
}
