package narrator

import (
	"context"
	"sync"

	"github.com/thakurp/shopreel/internal/scene"
)

// Result is the terminal state of one narration attempt. Speak never
// propagates backend errors to callers; they collapse into Failed so the
// playback scheduler can always advance.
type Result int

const (
	Completed Result = iota
	Cancelled
	Failed
)

func (r Result) String() string {
	switch r {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "failed"
}

// Presentation tuning constants. Slightly faster than natural speech,
// neutral pitch.
const (
	SpeechRate  = 1.1
	SpeechPitch = 1.0
)

// Utterance is one synthesis request handed to the speech backend.
type Utterance struct {
	Text  string
	Voice Voice
	Rate  float64
	Pitch float64
}

// Speech is the low-level synthesis capability. Utter blocks until the
// utterance has been spoken to completion or ctx is cancelled.
type Speech interface {
	Utter(ctx context.Context, u Utterance) error
}

// Engine owns the single process-wide active utterance. Starting a new
// narration preempts any in-flight one immediately; there is no queue.
type Engine struct {
	speech  Speech
	catalog *Catalog

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewEngine(speech Speech, catalog *Catalog) *Engine {
	return &Engine{speech: speech, catalog: catalog}
}

// Speak narrates text and blocks until it completes, fails or is
// preempted. If the voice catalog has not loaded yet, Speak waits for it
// once rather than polling.
func (e *Engine) Speak(ctx context.Context, text string, lang scene.Language) Result {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	sctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.gen++
	myGen := e.gen
	e.mu.Unlock()

	defer func() {
		cancel()
		e.mu.Lock()
		// A preempting Speak has already replaced the slot; only the
		// most recent utterance clears it.
		if e.gen == myGen {
			e.cancel = nil
		}
		e.mu.Unlock()
	}()

	select {
	case <-e.catalog.Ready():
	case <-sctx.Done():
		return Cancelled
	}

	voice := e.catalog.Select(lang)
	err := e.speech.Utter(sctx, Utterance{
		Text:  text,
		Voice: voice,
		Rate:  SpeechRate,
		Pitch: SpeechPitch,
	})

	if sctx.Err() != nil {
		return Cancelled
	}
	if err != nil {
		return Failed
	}
	return Completed
}

// Cancel stops any in-flight narration. Safe to call concurrently and
// when nothing is speaking.
func (e *Engine) Cancel() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.mu.Unlock()
}
