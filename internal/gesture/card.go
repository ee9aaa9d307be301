// Package gesture turns a horizontal drag on a profile card into a left or
// right decision and drives the card through its commit or return motion.
package gesture

import (
	"log"
	"math"
	"sync"
	"time"
)

type Direction string

const (
	DirectionNone  Direction = "none"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

type State int

const (
	StateIdle State = iota
	StateDragging
	StateCommittingLeft
	StateCommittingRight
	StateReturning
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateCommittingLeft:
		return "committing_left"
	case StateCommittingRight:
		return "committing_right"
	case StateReturning:
		return "returning"
	case StateDiscarded:
		return "discarded"
	}
	return "unknown"
}

type ImpactStyle string

const (
	ImpactLight  ImpactStyle = "light"
	ImpactMedium ImpactStyle = "medium"
)

// Haptics emits a tactile pulse. Failures never affect the gesture.
type Haptics interface {
	Impact(style ImpactStyle) error
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules on the runtime timer.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

type Config struct {
	// Width of the viewport in points. Must be positive.
	Width float64
	// ThresholdRatio of Width a drag must strictly exceed to commit.
	ThresholdRatio float64
	MaxRotation    float64
	// ExitRatio of Width the card travels to when committed.
	ExitRatio      float64
	CommitDuration time.Duration
	MinScale       float64
	MinOpacity     float64
	Spring         Spring
}

func DefaultConfig(width float64) Config {
	return Config{
		Width:          width,
		ThresholdRatio: 0.25,
		MaxRotation:    30,
		ExitRatio:      1.5,
		CommitDuration: 300 * time.Millisecond,
		MinScale:       0.95,
		MinOpacity:     0.8,
		Spring:         DefaultSpring(),
	}
}

func (c Config) Threshold() float64 {
	return c.Width * c.ThresholdRatio
}

// Transform is the visual state of the card.
type Transform struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Rotation   float64 `json:"rotation"`
	Scale      float64 `json:"scale"`
	Opacity    float64 `json:"opacity"`
}

func restTransform() Transform {
	return Transform{Scale: 1, Opacity: 1}
}

// Decision is the outcome of one released drag.
type Decision struct {
	DX       float64   `json:"dx"`
	DY       float64   `json:"dy"`
	Rotation float64   `json:"rotation"`
	Commit   Direction `json:"commit"`
}

// Rotation maps dx linearly from [-Width, Width] onto [-MaxRotation, MaxRotation], clamped.
func (c Config) Rotation(dx float64) float64 {
	if c.Width <= 0 {
		return 0
	}
	r := dx / c.Width * c.MaxRotation
	return math.Max(-c.MaxRotation, math.Min(c.MaxRotation, r))
}

func (c Config) progress(dx float64) float64 {
	t := c.Threshold()
	if t <= 0 {
		return 0
	}
	return math.Min(math.Abs(dx)/t, 1)
}

// Feedback returns the transform shown while dragging at (dx, dy).
func (c Config) Feedback(dx, dy float64) Transform {
	p := c.progress(dx)
	return Transform{
		TranslateX: dx,
		TranslateY: dy,
		Rotation:   c.Rotation(dx),
		Scale:      1 - (1-c.MinScale)*p,
		Opacity:    1 - (1-c.MinOpacity)*p,
	}
}

// Decide classifies a released drag. A drag exactly at the threshold does not commit.
func (c Config) Decide(dx, dy float64) Decision {
	d := Decision{DX: dx, DY: dy, Rotation: c.Rotation(dx), Commit: DirectionNone}
	t := c.Threshold()
	switch {
	case dx > t:
		d.Commit = DirectionRight
	case dx < -t:
		d.Commit = DirectionLeft
	}
	return d
}

// Card is one swipeable card holding an item of type T.
type Card[T any] struct {
	mu        sync.Mutex
	cfg       Config
	item      T
	state     State
	transform Transform
	// gen invalidates a pending return when a new drag starts.
	gen uint64

	haptics   Haptics
	scheduler Scheduler

	OnSwipeLeft  func(item T)
	OnSwipeRight func(item T)
}

// NewCard builds a card. A nil haptics disables pulses; a nil scheduler uses timers.
func NewCard[T any](item T, cfg Config, haptics Haptics, scheduler Scheduler) *Card[T] {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &Card[T]{
		cfg:       cfg,
		item:      item,
		state:     StateIdle,
		transform: restTransform(),
		haptics:   haptics,
		scheduler: scheduler,
	}
}

func (c *Card[T]) Item() T {
	return c.item
}

func (c *Card[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Card[T]) Transform() Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform
}

// Start begins a drag. It is accepted from Idle and from Returning.
func (c *Card[T]) Start() bool {
	c.mu.Lock()
	if c.state != StateIdle && c.state != StateReturning {
		c.mu.Unlock()
		return false
	}
	c.state = StateDragging
	c.gen++
	c.mu.Unlock()

	c.pulse(ImpactLight)
	return true
}

// Update moves the card while dragging. Ignored in any other state.
func (c *Card[T]) Update(dx, dy float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDragging {
		return false
	}
	c.transform = c.cfg.Feedback(dx, dy)
	return true
}

// End releases the drag and starts the commit or return motion.
func (c *Card[T]) End() (Decision, bool) {
	c.mu.Lock()
	if c.state != StateDragging {
		c.mu.Unlock()
		return Decision{}, false
	}

	d := c.cfg.Decide(c.transform.TranslateX, c.transform.TranslateY)
	switch d.Commit {
	case DirectionRight, DirectionLeft:
		sign := 1.0
		c.state = StateCommittingRight
		if d.Commit == DirectionLeft {
			sign = -1
			c.state = StateCommittingLeft
		}
		c.transform = Transform{
			TranslateX: sign * c.cfg.ExitRatio * c.cfg.Width,
			TranslateY: c.transform.TranslateY,
			Rotation:   sign * c.cfg.MaxRotation,
			Scale:      c.transform.Scale,
			Opacity:    c.transform.Opacity,
		}
		c.mu.Unlock()

		c.pulse(ImpactMedium)
		c.scheduler.AfterFunc(c.cfg.CommitDuration, func() { c.finishCommit(d.Commit) })
	default:
		c.state = StateReturning
		gen := c.gen
		settle := c.cfg.Spring.SettleTime(c.transform.TranslateX)
		c.mu.Unlock()

		c.scheduler.AfterFunc(settle, func() { c.finishReturn(gen) })
	}
	return d, true
}

func (c *Card[T]) finishCommit(dir Direction) {
	c.mu.Lock()
	c.state = StateDiscarded
	c.mu.Unlock()

	cb := c.OnSwipeRight
	if dir == DirectionLeft {
		cb = c.OnSwipeLeft
	}
	if cb != nil {
		cb(c.item)
	}
}

func (c *Card[T]) finishReturn(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReturning || c.gen != gen {
		return
	}
	c.state = StateIdle
	c.transform = restTransform()
}

func (c *Card[T]) pulse(style ImpactStyle) {
	if c.haptics == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Gesture] haptics panic: %v", r)
		}
	}()
	if err := c.haptics.Impact(style); err != nil {
		log.Printf("[Gesture] haptics: %v", err)
	}
}

// Sample is one reported drag position.
type Sample struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Replay drives a full drag through the card and returns the release decision.
func (c *Card[T]) Replay(samples []Sample) (Decision, bool) {
	if !c.Start() {
		return Decision{}, false
	}
	for _, s := range samples {
		c.Update(s.DX, s.DY)
	}
	return c.End()
}
