//go:build !((linux && cgo) || windows || darwin)

package transport

import (
	"errors"
	"testing"

	apperrors "github.com/tessro/auralyn/internal/errors"
)

func TestOpenAudioUnavailable(t *testing.T) {
	tr, err := OpenAudio(nil)
	if !errors.Is(err, apperrors.ErrAudioUnavailable) {
		t.Errorf("err = %v, want ErrAudioUnavailable", err)
	}
	if tr != nil {
		t.Errorf("transport = %v, want nil", tr)
	}
}
