//go:build (linux && cgo) || windows || darwin

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	apperrors "github.com/tessro/auralyn/internal/errors"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

const (
	outputRate     = beep.SampleRate(44100)
	tickInterval   = 250 * time.Millisecond
	maxMediaBytes  = 64 << 20
	minVolumeDB    = -10.0
	volumeExponent = 0.5
)

var speakerOnce struct {
	sync.Once
	err error
}

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerOnce.err = speaker.Init(outputRate, outputRate.N(time.Second/10))
	})
	return speakerOnce.err
}

// Beep plays media through the system audio device. Media is downloaded
// fully before decoding so seeking and duration work on HTTP sources.
type Beep struct {
	mu     sync.Mutex
	client *http.Client
	log    *zap.Logger
	events *eventQueue

	gen      uint64
	cancel   context.CancelFunc
	stream   beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	wantPlay bool
	done     chan struct{}
}

// NewBeep opens the speaker and returns a transport that plays through it.
func NewBeep(log *zap.Logger) (*Beep, error) {
	if err := initSpeaker(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAudioUnavailable, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Beep{
		client: &http.Client{Timeout: 60 * time.Second},
		log:    log.Named("beep"),
		events: newEventQueue(),
		level:  1,
	}, nil
}

// OpenAudio returns the speaker-backed transport.
func OpenAudio(log *zap.Logger) (Transport, error) {
	b, err := NewBeep(log)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// levelToDB maps a linear level onto the exponent effects.Volume expects.
func levelToDB(level float64) float64 {
	if level <= 0 {
		return minVolumeDB
	}
	if level >= 1 {
		return 0
	}
	return (1.0 - math.Pow(level, volumeExponent)) * minVolumeDB
}

func (b *Beep) emit(ev Event) {
	b.events.push(ev)
}

// Load implements Transport.
func (b *Beep) Load(gen uint64, url string) {
	b.mu.Lock()
	b.stopLocked()
	b.gen = gen
	b.wantPlay = false
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.mu.Unlock()

	go b.fetch(ctx, gen, url)
}

func (b *Beep) fetch(ctx context.Context, gen uint64, url string) {
	stream, format, err := b.download(ctx, url)

	b.mu.Lock()
	if gen != b.gen || ctx.Err() != nil {
		b.mu.Unlock()
		if stream != nil {
			_ = stream.Close()
		}
		return
	}
	if err != nil {
		wantPlay := b.wantPlay
		b.cancel = nil
		b.mu.Unlock()
		b.log.Warn("media load failed", zap.Uint64("generation", gen), zap.Error(err))
		if wantPlay {
			b.emit(Event{Kind: EventPlayFailed, Generation: gen, Err: err})
		} else {
			b.emit(Event{Kind: EventError, Generation: gen, Err: err})
		}
		return
	}

	b.stream = stream
	b.format = format
	length := format.SampleRate.D(stream.Len())
	start := b.wantPlay
	if start {
		b.startLocked()
	}
	b.mu.Unlock()

	b.emit(Event{Kind: EventLoadedMetadata, Generation: gen, Duration: length})
	if start {
		b.emit(Event{Kind: EventPlayStarted, Generation: gen})
	}
}

func (b *Beep) download(ctx context.Context, url string) (beep.StreamSeekCloser, beep.Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, beep.Format{}, fmt.Errorf("%w: media returned %s", apperrors.ErrTransport, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}

	rc := io.NopCloser(bytes.NewReader(data))
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "wav") || strings.HasSuffix(strings.ToLower(url), ".wav") {
		stream, format, err := wav.Decode(rc)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("%w: decode wav: %v", apperrors.ErrTransport, err)
		}
		return stream, format, nil
	}
	stream, format, err := mp3.Decode(rc)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: decode mp3: %v", apperrors.ErrTransport, err)
	}
	return stream, format, nil
}

// startLocked hands the loaded stream to the speaker. Caller holds b.mu.
func (b *Beep) startLocked() {
	var s beep.Streamer = b.stream
	if b.format.SampleRate != outputRate {
		s = beep.Resample(4, b.format.SampleRate, outputRate, s)
	}
	b.volume = &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   levelToDB(b.level),
		Silent:   b.level <= 0,
	}
	b.ctrl = &beep.Ctrl{Streamer: b.volume}
	b.done = make(chan struct{})

	gen, done := b.gen, b.done
	speaker.Play(beep.Seq(b.ctrl, beep.Callback(func() {
		// Runs under the speaker lock.
		go b.finished(gen, done)
	})))
	go b.tick(gen, done, b.stream, b.format)
}

func (b *Beep) finished(gen uint64, done chan struct{}) {
	b.mu.Lock()
	current := gen == b.gen && done == b.done
	if current {
		close(b.done)
		b.done = nil
	}
	b.mu.Unlock()

	if current {
		b.emit(Event{Kind: EventEnded, Generation: gen})
	}
}

func (b *Beep) tick(gen uint64, done chan struct{}, stream beep.StreamSeeker, format beep.Format) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			speaker.Lock()
			pos := format.SampleRate.D(stream.Position())
			speaker.Unlock()
			b.emit(Event{Kind: EventTimeUpdate, Generation: gen, Position: pos})
		}
	}
}

// Play implements Transport.
func (b *Beep) Play() {
	b.mu.Lock()
	b.wantPlay = true
	gen := b.gen
	switch {
	case b.stream == nil && b.cancel == nil:
		b.mu.Unlock()
		b.emit(Event{Kind: EventPlayFailed, Generation: gen, Err: errNothingLoaded})
		return
	case b.stream == nil:
		// Still downloading; fetch starts playback when it lands.
		b.mu.Unlock()
		return
	case b.ctrl == nil:
		b.startLocked()
	default:
		speaker.Lock()
		b.ctrl.Paused = false
		speaker.Unlock()
	}
	b.mu.Unlock()

	b.emit(Event{Kind: EventPlayStarted, Generation: gen})
}

// Pause implements Transport.
func (b *Beep) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wantPlay = false
	if b.ctrl != nil {
		speaker.Lock()
		b.ctrl.Paused = true
		speaker.Unlock()
	}
}

// Seek implements Transport.
func (b *Beep) Seek(position time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stream == nil {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()

	n := b.format.SampleRate.N(position)
	if n < 0 {
		n = 0
	}
	if last := b.stream.Len() - 1; n > last {
		n = max(last, 0)
	}
	if err := b.stream.Seek(n); err != nil {
		b.log.Debug("seek failed", zap.Duration("position", position), zap.Error(err))
	}
}

// SetVolume implements Transport.
func (b *Beep) SetVolume(level float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.level = level
	if b.volume != nil {
		speaker.Lock()
		b.volume.Volume = levelToDB(level)
		b.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

// Stop implements Transport.
func (b *Beep) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

// stopLocked stops playback (must be called with lock held).
func (b *Beep) stopLocked() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if b.ctrl != nil {
		speaker.Clear()
	}
	if b.done != nil {
		close(b.done)
		b.done = nil
	}
	if b.stream != nil {
		_ = b.stream.Close()
		b.stream = nil
	}
	b.ctrl = nil
	b.volume = nil
	b.wantPlay = false
}

// Events implements Transport.
func (b *Beep) Events() <-chan Event {
	return b.events.events()
}

// Close implements Transport.
func (b *Beep) Close() error {
	b.Stop()
	b.events.close()
	return nil
}
