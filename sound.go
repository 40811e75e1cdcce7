package main

import (
	"bytes"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// SoundEvent names a game moment with a synthesized blip attached.
type SoundEvent int

const (
	SoundMove SoundEvent = iota
	SoundRotate
	SoundLock
	SoundDrop
	SoundHold
	SoundLine1
	SoundLine2
	SoundLine3
	SoundLine4
	SoundMenuMove
	SoundMenuSelect
	SoundGameOver
)

// SoundEngine renders short tone sequences through oto. All sounds are
// synthesized; the game ships no audio assets.
type SoundEngine struct {
	mu      sync.RWMutex
	ctx     *oto.Context
	enabled bool
	volume  float64
}

func NewSoundEngine(enabled bool, volume float64) *SoundEngine {
	engine := &SoundEngine{
		enabled: enabled,
		volume:  clampVolume(volume),
	}
	ctx, err := initAudioContext()
	if err != nil {
		DebugLogf("audio init error: %v", err)
		engine.enabled = false
		return engine
	}
	engine.ctx = ctx
	return engine
}

func (s *SoundEngine) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

func (s *SoundEngine) SetVolume(volume float64) {
	s.mu.Lock()
	s.volume = clampVolume(volume)
	s.mu.Unlock()
}

func (s *SoundEngine) Play(event SoundEvent) {
	s.play(tonesForEvent(event))
}

// PlayCombo plays an ascending run, one step per combo link.
func (s *SoundEngine) PlayCombo(combo int) {
	if combo < 2 {
		return
	}
	steps := combo
	if steps > 6 {
		steps = 6
	}
	sequence := make([]toneSpec, 0, steps)
	freq := 440.0
	for i := 0; i < steps; i++ {
		sequence = append(sequence, toneSpec{frequency: freq, duration: 50 * time.Millisecond, volume: 0.25})
		freq *= 1.19
	}
	s.play(sequence)
}

func (s *SoundEngine) play(sequence []toneSpec) {
	s.mu.RLock()
	ctx := s.ctx
	enabled := s.enabled
	volume := s.volume
	s.mu.RUnlock()
	if !enabled || ctx == nil || len(sequence) == 0 {
		return
	}
	go func() {
		buffer := renderToneSequence(sequence, audioSampleRate, volume)
		player := ctx.NewPlayer(bytes.NewReader(buffer))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(5 * time.Millisecond)
		}
		_ = player.Close()
	}()
}

type toneSpec struct {
	frequency float64
	duration  time.Duration
	volume    float64
}

func tonesForEvent(event SoundEvent) []toneSpec {
	switch event {
	case SoundMove:
		return []toneSpec{{frequency: 380, duration: 25 * time.Millisecond, volume: 0.18}}
	case SoundRotate:
		return []toneSpec{{frequency: 520, duration: 40 * time.Millisecond, volume: 0.25}}
	case SoundLock:
		return []toneSpec{{frequency: 220, duration: 70 * time.Millisecond, volume: 0.3}}
	case SoundDrop:
		return []toneSpec{{frequency: 240, duration: 55 * time.Millisecond, volume: 0.22}}
	case SoundHold:
		return []toneSpec{{frequency: 300, duration: 45 * time.Millisecond, volume: 0.2}}
	case SoundLine1:
		return []toneSpec{{frequency: 440, duration: 90 * time.Millisecond, volume: 0.3}}
	case SoundLine2:
		return []toneSpec{
			{frequency: 440, duration: 70 * time.Millisecond, volume: 0.3},
			{frequency: 660, duration: 90 * time.Millisecond, volume: 0.3},
		}
	case SoundLine3:
		return []toneSpec{
			{frequency: 440, duration: 70 * time.Millisecond, volume: 0.3},
			{frequency: 660, duration: 70 * time.Millisecond, volume: 0.3},
			{frequency: 880, duration: 90 * time.Millisecond, volume: 0.3},
		}
	case SoundLine4:
		return []toneSpec{
			{frequency: 660, duration: 80 * time.Millisecond, volume: 0.3},
			{frequency: 880, duration: 80 * time.Millisecond, volume: 0.3},
			{frequency: 990, duration: 120 * time.Millisecond, volume: 0.3},
		}
	case SoundMenuMove:
		return []toneSpec{{frequency: 260, duration: 24 * time.Millisecond, volume: 0.16}}
	case SoundMenuSelect:
		return []toneSpec{{frequency: 520, duration: 70 * time.Millisecond, volume: 0.2}}
	case SoundGameOver:
		return []toneSpec{
			{frequency: 320, duration: 110 * time.Millisecond, volume: 0.28},
			{frequency: 180, duration: 180 * time.Millisecond, volume: 0.28},
		}
	default:
		return nil
	}
}

func soundForClear(cleared int) SoundEvent {
	switch cleared {
	case 1:
		return SoundLine1
	case 2:
		return SoundLine2
	case 3:
		return SoundLine3
	default:
		return SoundLine4
	}
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}

func renderToneSequence(sequence []toneSpec, sampleRate int, masterVolume float64) []byte {
	gap := 10 * time.Millisecond
	gapSamples := int(float64(sampleRate) * gap.Seconds())
	bytesPerSample := 4
	totalSamples := 0
	for i, spec := range sequence {
		totalSamples += int(float64(sampleRate) * spec.duration.Seconds())
		if i < len(sequence)-1 {
			totalSamples += gapSamples
		}
	}
	buffer := make([]byte, totalSamples*bytesPerSample)
	index := 0
	for i, spec := range sequence {
		volume := spec.volume
		if volume <= 0 {
			volume = 0.3
		}
		volume *= clampVolume(masterVolume)
		renderTone(buffer, index, spec, sampleRate, volume)
		index += int(float64(sampleRate)*spec.duration.Seconds()) * bytesPerSample
		if i < len(sequence)-1 {
			index += gapSamples * bytesPerSample
		}
	}
	return buffer
}

// renderTone writes one faded sine tone as interleaved stereo int16.
func renderTone(buffer []byte, start int, spec toneSpec, sampleRate int, volume float64) {
	const maxInt16 = 1<<15 - 1
	samples := int(float64(sampleRate) * spec.duration.Seconds())
	fadeSamples := int(float64(sampleRate) * 0.003)
	for i := 0; i < samples; i++ {
		env := 1.0
		if fadeSamples > 0 {
			if i < fadeSamples {
				env = float64(i) / float64(fadeSamples)
			} else if i > samples-fadeSamples {
				env = float64(samples-i) / float64(fadeSamples)
			}
			if env < 0 {
				env = 0
			}
		}
		sample := math.Sin(2 * math.Pi * spec.frequency * float64(i) / float64(sampleRate))
		value := int16(sample * volume * env * maxInt16)
		buffer[start+i*4] = byte(value)
		buffer[start+i*4+1] = byte(value >> 8)
		buffer[start+i*4+2] = byte(value)
		buffer[start+i*4+3] = byte(value >> 8)
	}
}
