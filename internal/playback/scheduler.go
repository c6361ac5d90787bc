package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/thakurp/shopreel/internal/narrator"
	"github.com/thakurp/shopreel/internal/scene"
)

// AutoAdvanceInterval is the fixed dwell per scene in silent mode.
const AutoAdvanceInterval = 7 * time.Second

var (
	// ErrSceneLocked is returned for transitions attempted while the
	// current scene's narration is still in flight.
	ErrSceneLocked = errors.New("scene is locked by in-flight narration")
	// ErrDriven is returned for user transitions while an export drives
	// the scheduler.
	ErrDriven = errors.New("scheduler is driven by an export job")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("scheduler is closed")
)

// Narrator is the capability the scheduler needs from the narration
// engine: a blocking speak that always resolves, and a cancel.
type Narrator interface {
	Speak(ctx context.Context, text string, lang scene.Language) narrator.Result
	Cancel()
}

// State is a snapshot of the playback state.
type State struct {
	Current int
	Muted   bool
	Started bool
	Locked  bool
}

// Scheduler advances through the five scenes either on a fixed timer
// (muted) or on narration completion (voiced). All transitions go
// through its methods; the scene index is never mutated elsewhere.
type Scheduler struct {
	scenes   [scene.Count]scene.Scene
	lang     scene.Language
	narrator Narrator
	clock    Clock
	onScene  func(index int)

	mu          sync.Mutex
	current     int
	muted       bool
	started     bool
	locked      bool
	driven      bool
	closed      bool
	cancelTimer func()
	gen         uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSceneObserver registers a callback invoked (outside the lock)
// whenever the current scene changes.
func WithSceneObserver(fn func(index int)) Option {
	return func(s *Scheduler) { s.onScene = fn }
}

func NewScheduler(scenes [scene.Count]scene.Scene, lang scene.Language, n Narrator, c Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		scenes:   scenes,
		lang:     lang,
		narrator: n,
		clock:    c,
		muted:    true, // playback starts silent until the user opts in
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins playback from scene 0 in silent auto-advance mode.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.scheduleAutoLocked()
	s.mu.Unlock()
}

// State returns the current playback snapshot.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Current: s.current, Muted: s.muted, Started: s.started, Locked: s.locked}
}

// Current returns the current scene index.
func (s *Scheduler) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Scene returns the scene at the current index.
func (s *Scheduler) Scene() scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenes[s.current]
}

// Mute cancels any in-flight narration immediately and switches to
// timer-driven advance from the current scene.
func (s *Scheduler) Mute() {
	s.mu.Lock()
	if s.closed || s.muted {
		s.mu.Unlock()
		return
	}
	s.muted = true
	s.locked = false
	s.gen++
	s.narrator.Cancel()
	if s.started && !s.driven {
		s.scheduleAutoLocked()
	}
	s.mu.Unlock()
}

// Unmute cancels the auto-advance timer and narrates the current scene
// immediately.
func (s *Scheduler) Unmute() {
	s.mu.Lock()
	if s.closed || !s.muted {
		s.mu.Unlock()
		return
	}
	s.muted = false
	s.started = true
	s.gen++
	s.stopTimerLocked()
	s.narrateLocked()
	s.mu.Unlock()
}

// JumpTo is a user-initiated transition. It is rejected while narration
// is in flight and while an export job drives the scheduler.
func (s *Scheduler) JumpTo(index int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.driven {
		s.mu.Unlock()
		return ErrDriven
	}
	return s.seekAndUnlock(index)
}

// Seek is the driver-side transition used by the render orchestrator.
// It bypasses the driven check but still refuses a locked scene.
func (s *Scheduler) Seek(index int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	return s.seekAndUnlock(index)
}

// SetDriven hands transition control to the render orchestrator (true)
// or back to the user (false). Entering driven mode stops all timers and
// narration so capture never races an automatic advance.
func (s *Scheduler) SetDriven(driven bool) {
	s.mu.Lock()
	if s.closed || s.driven == driven {
		s.mu.Unlock()
		return
	}
	s.driven = driven
	s.gen++
	s.locked = false
	s.stopTimerLocked()
	s.narrator.Cancel()
	if !driven && s.started && s.muted {
		s.scheduleAutoLocked()
	}
	s.mu.Unlock()
}

// Close tears the scheduler down: every pending timer and narration is
// cancelled. A timer or utterance surviving Close is a defect.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.gen++
	s.locked = false
	s.stopTimerLocked()
	s.narrator.Cancel()
	s.mu.Unlock()
}

// seekAndUnlock performs a transition and releases the lock, notifying
// the observer afterwards. The caller must hold the lock.
func (s *Scheduler) seekAndUnlock(index int) error {
	if s.locked {
		s.mu.Unlock()
		return ErrSceneLocked
	}
	if index < 0 || index >= scene.Count {
		s.mu.Unlock()
		return errors.New("scene index out of range")
	}
	s.gen++
	s.stopTimerLocked()
	s.current = index
	if s.started {
		if s.muted {
			if !s.driven {
				s.scheduleAutoLocked()
			}
		} else {
			s.narrateLocked()
		}
	}
	s.mu.Unlock()
	s.notify(index)
	return nil
}

// scheduleAutoLocked arms the silent-mode timer for the current scene.
func (s *Scheduler) scheduleAutoLocked() {
	s.stopTimerLocked()
	myGen := s.gen
	s.cancelTimer = s.clock.After(AutoAdvanceInterval, func() {
		s.mu.Lock()
		if s.closed || s.gen != myGen || !s.muted || s.driven {
			s.mu.Unlock()
			return
		}
		s.current = (s.current + 1) % scene.Count
		next := s.current
		s.scheduleAutoLocked()
		s.mu.Unlock()
		s.notify(next)
	})
}

// narrateLocked starts voiced playback of the current scene. The scene
// stays locked exactly while the narration promise is unresolved; on
// completion or failure the scheduler advances and narrates the next
// scene, looping until muted or closed.
func (s *Scheduler) narrateLocked() {
	s.locked = true
	myGen := s.gen
	text := s.scenes[s.current].Narration

	go func() {
		res := s.narrator.Speak(context.Background(), text, s.lang)

		s.mu.Lock()
		if s.closed || s.gen != myGen {
			s.mu.Unlock()
			return
		}
		s.locked = false
		if res == narrator.Cancelled {
			// Cancellation always comes from mute/teardown/preemption;
			// the chain must not keep running after it.
			s.mu.Unlock()
			return
		}
		s.current = (s.current + 1) % scene.Count
		next := s.current
		s.narrateLocked()
		s.mu.Unlock()
		s.notify(next)
	}()
}

func (s *Scheduler) notify(index int) {
	if s.onScene != nil {
		s.onScene(index)
	}
}

func (s *Scheduler) stopTimerLocked() {
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}
