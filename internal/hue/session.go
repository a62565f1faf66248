// internal/hue/session.go
package hue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// setStateTransition is the fade used for full state writes, in
// deciseconds. Short enough that playback never waits on a fade.
const setStateTransition uint16 = 2

// Session owns a lamp for the duration of a playback run. It captures
// the lamp's state on open and restores it on Close. Only one session
// should be open per lamp at a time.
type Session struct {
	ctrl     Controller
	lampID   int
	baseline State
	closed   bool
	sleep    func(time.Duration)
}

// OpenSession reads the lamp's current state and captures it as the
// restoration baseline. A failed read means no session: the caller
// gets an error and nothing to release.
func OpenSession(ctx context.Context, ctrl Controller, lampID int) (*Session, error) {
	baseline, err := ctrl.LampState(ctx, lampID)
	if err != nil {
		return nil, fmt.Errorf("open session for lamp %d: %w", lampID, err)
	}
	return &Session{
		ctrl:     ctrl,
		lampID:   lampID,
		baseline: baseline,
		sleep:    time.Sleep,
	}, nil
}

// Baseline returns the state captured at open.
func (s *Session) Baseline() State {
	return s.baseline
}

// SetState writes the full lamp state in one call with a short fixed
// transition.
func (s *Session) SetState(ctx context.Context, st State) error {
	tt := setStateTransition
	upd := StateUpdate{
		On:             &st.On,
		Bri:            &st.Bri,
		CT:             &st.CT,
		Hue:            st.Hue,
		Sat:            st.Sat,
		XY:             st.XY,
		TransitionTime: &tt,
	}
	return s.ctrl.SetLampState(ctx, s.lampID, upd)
}

// SetOn writes only the power field with zero transition time. This is
// the primitive behind every Morse pulse, so it must be the fastest
// toggle the bridge offers.
func (s *Session) SetOn(ctx context.Context, on bool) error {
	var tt uint16
	return s.ctrl.SetLampState(ctx, s.lampID, StateUpdate{On: &on, TransitionTime: &tt})
}

// Blink switches the lamp on, holds it for d, and switches it off.
// The actual pulse width is d plus two bridge round-trips.
func (s *Session) Blink(ctx context.Context, d time.Duration) error {
	if err := s.SetOn(ctx, true); err != nil {
		return err
	}
	s.sleep(d)
	return s.SetOn(ctx, false)
}

// Close restores the baseline state and invalidates the session. It
// re-reads the lamp and, comparing only non-power fields, issues at
// most one write: a full transitioned SetState when color attributes
// drifted (power comes back within that same write, avoiding a
// separate flash), a bare SetOn when only power differs, and nothing
// when the lamp already matches. Safe to call more than once; only the
// first call acts.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	current, err := s.ctrl.LampState(ctx, s.lampID)
	if err != nil {
		// Cannot tell what drifted. Push the whole baseline back
		// as a best effort before giving up.
		log.Warn().Err(err).Int("lamp", s.lampID).Msg("State re-read failed, forcing full restore")
		if restoreErr := s.SetState(ctx, s.baseline); restoreErr != nil {
			return fmt.Errorf("restore lamp %d: %w", s.lampID, restoreErr)
		}
		return nil
	}

	powerNow := current.On
	current.On = s.baseline.On
	switch {
	case !current.Equal(s.baseline):
		return s.SetState(ctx, s.baseline)
	case powerNow != s.baseline.On:
		return s.SetOn(ctx, s.baseline.On)
	default:
		return nil
	}
}
