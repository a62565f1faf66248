// internal/morse/speed.go
package morse

import (
	"errors"
	"time"
)

// Morse timing ratios (ITU standard). A standard word ("PARIS") is 50
// dot units, which ties WPM to the dot duration.
const (
	// DitsPerWord is the length of the standard word in dot units
	DitsPerWord = 50
	// DashRatio is the dash duration in dot units
	DashRatio = 3
	// LetterGapRatio is the gap between characters in dot units
	LetterGapRatio = 3
	// WordGapRatio is the gap between words in dot units
	WordGapRatio = 7
	// RepeatGapRatio is the gap after each message repeat in dot units
	RepeatGapRatio = 3 * WordGapRatio
)

// ErrInvalidWPM indicates WPM must be positive
var ErrInvalidWPM = errors.New("WPM must be positive")

// Speed holds every duration the playback engine needs, all derived
// from a single words-per-minute figure. Values never change after
// construction; a different speed means a new Speed.
type Speed struct {
	// WPM is the words-per-minute figure the durations derive from
	WPM int
	// Unit is the base timing unit (equal to Dot)
	Unit time.Duration
	// Dot is the short pulse width, also the gap between symbols
	// within one character
	Dot time.Duration
	// Dash is the long pulse width (3 units)
	Dash time.Duration
	// LetterGap separates characters within a word (3 units)
	LetterGap time.Duration
	// WordGap separates words (7 units)
	WordGap time.Duration
	// RepeatGap follows every full pass over the message (21 units)
	RepeatGap time.Duration
}

// NewSpeed derives all timings from wpm. Returns ErrInvalidWPM for
// non-positive input.
func NewSpeed(wpm int) (Speed, error) {
	if wpm <= 0 {
		return Speed{}, ErrInvalidWPM
	}

	// unit = 60 / (50 * wpm) seconds
	unit := time.Minute / time.Duration(DitsPerWord*wpm)

	return Speed{
		WPM:       wpm,
		Unit:      unit,
		Dot:       unit,
		Dash:      DashRatio * unit,
		LetterGap: LetterGapRatio * unit,
		WordGap:   WordGapRatio * unit,
		RepeatGap: RepeatGapRatio * unit,
	}, nil
}
