package narrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thakurp/shopreel/internal/scene"
)

// blockingSpeech blocks each utterance until released or cancelled.
type blockingSpeech struct {
	mu      sync.Mutex
	started chan Utterance
	release chan error
}

func newBlockingSpeech() *blockingSpeech {
	return &blockingSpeech{
		started: make(chan Utterance, 16),
		release: make(chan error),
	}
}

func (b *blockingSpeech) Utter(ctx context.Context, u Utterance) error {
	b.started <- u
	select {
	case err := <-b.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func loadedCatalog() *Catalog {
	c := NewCatalog()
	c.Load([]Voice{
		{ID: "v-en-us", Locale: "en-US"},
		{ID: "v-hi-in", Locale: "hi-IN"},
		{ID: "v-en-in", Locale: "en-IN"},
	})
	return c
}

func TestSpeakCompletes(t *testing.T) {
	speech := newBlockingSpeech()
	e := NewEngine(speech, loadedCatalog())

	done := make(chan Result, 1)
	go func() { done <- e.Speak(context.Background(), "hello", scene.LangHindi) }()

	u := <-speech.started
	if u.Voice.ID != "v-hi-in" {
		t.Errorf("voice %q, want hi-IN match", u.Voice.ID)
	}
	if u.Rate != SpeechRate || u.Pitch != SpeechPitch {
		t.Errorf("rate/pitch %v/%v, want %v/%v", u.Rate, u.Pitch, SpeechRate, SpeechPitch)
	}

	speech.release <- nil
	if r := <-done; r != Completed {
		t.Errorf("result %v, want Completed", r)
	}
}

func TestSpeakBackendErrorIsFailedNotPanic(t *testing.T) {
	speech := newBlockingSpeech()
	e := NewEngine(speech, loadedCatalog())

	done := make(chan Result, 1)
	go func() { done <- e.Speak(context.Background(), "hello", scene.LangOther) }()

	<-speech.started
	speech.release <- errors.New("synthesis blew up")
	if r := <-done; r != Failed {
		t.Errorf("result %v, want Failed", r)
	}
}

func TestSpeakPreemptsPrevious(t *testing.T) {
	speech := newBlockingSpeech()
	e := NewEngine(speech, loadedCatalog())

	first := make(chan Result, 1)
	go func() { first <- e.Speak(context.Background(), "one", scene.LangHindi) }()
	<-speech.started

	second := make(chan Result, 1)
	go func() { second <- e.Speak(context.Background(), "two", scene.LangHindi) }()
	<-speech.started

	// The first utterance must resolve as cancelled without being released.
	select {
	case r := <-first:
		if r != Cancelled {
			t.Errorf("first result %v, want Cancelled", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first Speak did not return after preemption")
	}

	speech.release <- nil
	if r := <-second; r != Completed {
		t.Errorf("second result %v, want Completed", r)
	}
}

func TestCancelStopsActiveUtterance(t *testing.T) {
	speech := newBlockingSpeech()
	e := NewEngine(speech, loadedCatalog())

	done := make(chan Result, 1)
	go func() { done <- e.Speak(context.Background(), "one", scene.LangHindi) }()
	<-speech.started

	e.Cancel()
	select {
	case r := <-done:
		if r != Cancelled {
			t.Errorf("result %v, want Cancelled", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Speak did not return after Cancel")
	}

	// Cancel with nothing active is a no-op.
	e.Cancel()
}

func TestSpeakWaitsForCatalogOnce(t *testing.T) {
	speech := newBlockingSpeech()
	catalog := NewCatalog()
	e := NewEngine(speech, catalog)

	done := make(chan Result, 1)
	go func() { done <- e.Speak(context.Background(), "hello", scene.LangHindi) }()

	// Nothing may reach the backend before voices load.
	select {
	case <-speech.started:
		t.Fatal("utterance started before catalog load")
	case <-time.After(50 * time.Millisecond):
	}

	catalog.Load([]Voice{{ID: "only", Locale: "ta-IN"}})
	u := <-speech.started
	if u.Voice.ID != "only" {
		t.Errorf("voice %q, want country-code fallback to the single voice", u.Voice.ID)
	}
	speech.release <- nil
	<-done
}

func TestVoiceSelectionPolicy(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		lang   scene.Language
		want   string
	}{
		{"exact locale", []Voice{{ID: "a", Locale: "en-US"}, {ID: "b", Locale: "hi-IN"}}, scene.LangHindi, "b"},
		{"country fallback", []Voice{{ID: "a", Locale: "en-US"}, {ID: "b", Locale: "ta-IN"}}, scene.LangHindi, "b"},
		{"first voice fallback", []Voice{{ID: "a", Locale: "fr-FR"}, {ID: "b", Locale: "de-DE"}}, scene.LangHindi, "a"},
		{"english prefers en-IN", []Voice{{ID: "a", Locale: "en-US"}, {ID: "b", Locale: "en-IN"}}, scene.LangOther, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog()
			c.Load(tt.voices)
			if got := c.Select(tt.lang); got.ID != tt.want {
				t.Errorf("selected %q, want %q", got.ID, tt.want)
			}
		})
	}
}

func TestCatalogEmptySelect(t *testing.T) {
	c := NewCatalog()
	c.Load(nil)
	if v := c.Select(scene.LangHindi); v.ID != "" {
		t.Errorf("expected zero voice from empty catalog, got %q", v.ID)
	}
}
