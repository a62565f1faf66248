// internal/player/player.go
// Package player paces a translated Morse message against a blinking
// output device.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginger51011/mhue/internal/morse"
)

// ErrInvalidRepeat indicates the repeat count must be at least 1
var ErrInvalidRepeat = errors.New("repeat count must be at least 1")

// Blinker is anything that can hold a pulse for a duration. Both the
// lamp session and the audio sidetone satisfy it.
type Blinker interface {
	Blink(ctx context.Context, d time.Duration) error
}

// Player walks a Message and issues timed blinks and pauses. Pauses
// are plain sleeps of the nominal duration, so remote round-trip time
// adds to every pulse; cumulative drift over a long message is
// accepted.
type Player struct {
	sleep func(time.Duration)
}

// New creates a Player.
func New() *Player {
	return &Player{sleep: time.Sleep}
}

// Play renders msg through out, repeats times over. Gap rules:
// one dot between symbols of a character, LetterGap only between two
// characters that both produced symbols, WordGap between consecutive
// words, and RepeatGap after every repeat including the last so the
// closing restoration fade lands on a quiet lamp. A message with no
// symbols at all produces no output and no pauses.
func (p *Player) Play(ctx context.Context, msg morse.Message, speed morse.Speed, out Blinker, repeats int) error {
	if repeats < 1 {
		return ErrInvalidRepeat
	}
	if msg.Symbols() == 0 {
		return nil
	}

	for r := 0; r < repeats; r++ {
		for wi, word := range msg {
			if err := p.playWord(ctx, word, speed, out); err != nil {
				return err
			}
			if wi < len(msg)-1 {
				p.sleep(speed.WordGap)
			}
		}
		p.sleep(speed.RepeatGap)
	}
	return nil
}

func (p *Player) playWord(ctx context.Context, word morse.Word, speed morse.Speed, out Blinker) error {
	last := lastNonEmpty(word)
	for ci, char := range word {
		if len(char) == 0 {
			continue
		}
		if err := p.playCharacter(ctx, char, speed, out); err != nil {
			return err
		}
		if ci != last {
			p.sleep(speed.LetterGap)
		}
	}
	return nil
}

func (p *Player) playCharacter(ctx context.Context, char morse.Character, speed morse.Speed, out Blinker) error {
	for si, sym := range char {
		d := speed.Dot
		if sym == morse.Dash {
			d = speed.Dash
		}
		if err := out.Blink(ctx, d); err != nil {
			return fmt.Errorf("blink: %w", err)
		}
		if si < len(char)-1 {
			p.sleep(speed.Dot)
		}
	}
	return nil
}

// lastNonEmpty returns the index of the last character in word that
// produced symbols, or -1.
func lastNonEmpty(word morse.Word) int {
	for i := len(word) - 1; i >= 0; i-- {
		if len(word[i]) > 0 {
			return i
		}
	}
	return -1
}
