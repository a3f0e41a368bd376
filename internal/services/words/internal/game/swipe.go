package game

import (
	"math"
	"time"
)

const (
	DefaultThreshold      = 120.0
	DefaultScreenWidth    = 390.0
	DefaultMaxRotation    = 12.0
	DefaultCommitDuration = 200 * time.Millisecond
	DefaultCancelDuration = 180 * time.Millisecond

	offscreenFactor = 1.2
)

type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// Slot maps a committed direction to the guess it selects: left picks guess 1,
// right picks guess 2.
func (d Direction) Slot() Slot {
	switch d {
	case DirLeft:
		return Slot1
	case DirRight:
		return Slot2
	}
	return SlotNone
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseCommitting
	PhaseCancelling
)

type SwipeConfig struct {
	Threshold      float64
	ScreenWidth    float64
	MaxRotation    float64
	CommitDuration time.Duration
	CancelDuration time.Duration
}

func DefaultSwipeConfig(screenWidth float64) SwipeConfig {
	if screenWidth <= 0 || math.IsNaN(screenWidth) || math.IsInf(screenWidth, 0) {
		screenWidth = DefaultScreenWidth
	}

	return SwipeConfig{
		Threshold:      DefaultThreshold,
		ScreenWidth:    screenWidth,
		MaxRotation:    DefaultMaxRotation,
		CommitDuration: DefaultCommitDuration,
		CancelDuration: DefaultCancelDuration,
	}
}

// Offscreen is the settle target of a committed swipe.
func (c SwipeConfig) Offscreen() float64 {
	return c.ScreenWidth * offscreenFactor
}

// Rotation interpolates offset over [-offscreen, offscreen] onto
// [-MaxRotation, MaxRotation] degrees, clamped.
func (c SwipeConfig) Rotation(offset float64) float64 {
	off := c.Offscreen()
	if off <= 0 {
		return 0
	}

	deg := offset / off * c.MaxRotation
	return math.Max(-c.MaxRotation, math.Min(c.MaxRotation, deg))
}

// Classify returns the committed direction for a terminal offset. Offsets at
// or under the threshold never commit.
func (c SwipeConfig) Classify(offset float64) Direction {
	if math.Abs(offset) <= c.Threshold {
		return DirNone
	}
	if offset > 0 {
		return DirRight
	}
	return DirLeft
}

type Frame struct {
	Offset   float64 `json:"offset"`
	Rotation float64 `json:"rotation"`
}

// Release describes the settle animation that follows touch-up.
type Release struct {
	Direction Direction
	Target    float64
	Duration  time.Duration
}

func (r Release) Committed() bool {
	return r.Direction != DirNone
}

// DragSession is the gesture surface a renderer drives.
type DragSession interface {
	Begin()
	Update(offset float64) Frame
	End(finalOffset float64) Release
}

// Swipe is the state machine behind one card's horizontal drag.
type Swipe struct {
	cfg    SwipeConfig
	phase  Phase
	offset float64
	hint   bool
}

var _ DragSession = (*Swipe)(nil)

func NewSwipe(cfg SwipeConfig) *Swipe {
	return &Swipe{cfg: cfg, hint: true}
}

func (s *Swipe) Begin() {
	s.phase = PhaseDragging
	s.hint = false
}

// Update tracks the finger 1:1. A pending settle is overwritten.
func (s *Swipe) Update(offset float64) Frame {
	s.phase = PhaseDragging
	s.offset = offset
	return s.Frame()
}

func (s *Swipe) End(finalOffset float64) Release {
	dir := s.cfg.Classify(finalOffset)
	if dir == DirNone {
		s.phase = PhaseCancelling
		s.offset = 0
		return Release{Direction: DirNone, Target: 0, Duration: s.cfg.CancelDuration}
	}

	target := s.cfg.Offscreen()
	if dir == DirLeft {
		target = -target
	}

	s.phase = PhaseCommitting
	s.offset = target
	return Release{Direction: dir, Target: target, Duration: s.cfg.CommitDuration}
}

// Settle finishes the release animation. A committed card snaps back to the
// center for the next round.
func (s *Swipe) Settle() {
	s.phase = PhaseIdle
	s.offset = 0
}

// HideHint suppresses the guidance hint, e.g. once there is nothing left to show.
func (s *Swipe) HideHint() {
	s.hint = false
}

func (s *Swipe) Frame() Frame {
	return Frame{Offset: s.offset, Rotation: s.cfg.Rotation(s.offset)}
}

func (s *Swipe) Phase() Phase {
	return s.phase
}

func (s *Swipe) HintVisible() bool {
	return s.hint
}
