//go:build !((linux && cgo) || windows || darwin)

package transport

import (
	"go.uber.org/zap"

	apperrors "github.com/tessro/auralyn/internal/errors"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = false

// OpenAudio always fails in builds without an audio backend.
func OpenAudio(log *zap.Logger) (Transport, error) {
	return nil, apperrors.ErrAudioUnavailable
}
