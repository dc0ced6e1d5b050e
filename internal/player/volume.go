package player

// DefaultVolume is what unmuting falls back to when no non-zero level was
// ever set.
const DefaultVolume = 0.7

// SetVolume sets the output level, clamped to [0,1]. Zero implies muted but
// keeps the last non-zero level for ToggleMute to restore.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v = clamp01(v)
	p.volume = v
	if v == 0 {
		p.muted = true
	} else {
		p.restoreVolume = v
		p.muted = false
	}
	p.transport.SetVolume(p.effectiveVolume())
	p.commit()
}

// ToggleMute mutes without touching the level, or unmutes restoring the last
// non-zero level if the level is zero.
func (p *Player) ToggleMute() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted {
		p.muted = false
		if p.volume == 0 {
			p.volume = p.restoreVolume
			if p.volume == 0 {
				p.volume = DefaultVolume
			}
		}
	} else {
		p.muted = true
		if p.volume > 0 {
			p.restoreVolume = p.volume
		}
	}
	p.transport.SetVolume(p.effectiveVolume())
	p.commit()
}
