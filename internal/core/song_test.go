package core

import (
	"testing"
	"time"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name   string
		song   *Song
		want   string
		wantOK bool
	}{
		{
			name:   "nil song",
			song:   nil,
			wantOK: false,
		},
		{
			name: "explicit url wins",
			song: &Song{
				URL: "https://cdn.example/explicit.mp3",
				DownloadURLs: []MediaURL{
					{Quality: "320kbps", URL: "https://cdn.example/320.mp4"},
				},
			},
			want:   "https://cdn.example/explicit.mp3",
			wantOK: true,
		},
		{
			name: "highest bitrate",
			song: &Song{
				DownloadURLs: []MediaURL{
					{Quality: "12kbps", URL: "https://cdn.example/12.mp4"},
					{Quality: "320kbps", URL: "https://cdn.example/320.mp4"},
					{Quality: "160kbps", URL: "https://cdn.example/160.mp4"},
				},
			},
			want:   "https://cdn.example/320.mp4",
			wantOK: true,
		},
		{
			name: "skips empty entries",
			song: &Song{
				DownloadURLs: []MediaURL{
					{Quality: "320kbps", URL: ""},
					{Quality: "96kbps", URL: "https://cdn.example/96.mp4"},
				},
			},
			want:   "https://cdn.example/96.mp4",
			wantOK: true,
		},
		{
			name: "unlabelled variant still resolves",
			song: &Song{
				DownloadURLs: []MediaURL{{URL: "https://cdn.example/a.mp3"}},
			},
			want:   "https://cdn.example/a.mp3",
			wantOK: true,
		},
		{
			name:   "nothing playable",
			song:   &Song{ID: "x", Name: "Silence"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.song.ResolveURL()
			if ok != tt.wantOK {
				t.Fatalf("ResolveURL() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ResolveURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBitrate(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"320kbps", 320},
		{" 96KBPS ", 96},
		{"12", 12},
		{"high", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Bitrate(tt.in); got != tt.want {
			t.Errorf("Bitrate(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSongLength(t *testing.T) {
	s := &Song{Duration: 215}
	if got := s.Length(); got != 215*time.Second {
		t.Errorf("Length() = %v, want %v", got, 215*time.Second)
	}
	s.Duration = -1
	if got := s.Length(); got != 0 {
		t.Errorf("Length() = %v, want 0", got)
	}
}
