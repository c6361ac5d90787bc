package narrator

import (
	"strings"
	"sync"

	"github.com/thakurp/shopreel/internal/scene"
)

// Voice is one entry from the speech backend's voice catalog.
type Voice struct {
	ID     string
	Name   string
	Locale string // BCP 47, e.g. "hi-IN"
}

// LocaleFor maps a narration language to the preferred voice locale.
func LocaleFor(lang scene.Language) string {
	if lang == scene.LangHindi {
		return "hi-IN"
	}
	return "en-IN"
}

// Catalog holds the available voices. Backends load it asynchronously;
// Ready is closed exactly once when the first load arrives.
type Catalog struct {
	mu     sync.Mutex
	voices []Voice
	ready  chan struct{}
	loaded bool
}

func NewCatalog() *Catalog {
	return &Catalog{ready: make(chan struct{})}
}

// Load installs the voice list and marks the catalog ready.
// Later loads replace the list without re-signalling.
func (c *Catalog) Load(voices []Voice) {
	c.mu.Lock()
	c.voices = append([]Voice(nil), voices...)
	if !c.loaded {
		c.loaded = true
		close(c.ready)
	}
	c.mu.Unlock()
}

// Ready is closed once voices are available.
func (c *Catalog) Ready() <-chan struct{} {
	return c.ready
}

// Select picks a voice for the language: exact locale match first, then
// any voice from the same country, then the first voice in the catalog.
func (c *Catalog) Select(lang scene.Language) Voice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.voices) == 0 {
		return Voice{}
	}

	want := LocaleFor(lang)
	for _, v := range c.voices {
		if strings.EqualFold(v.Locale, want) {
			return v
		}
	}

	country := want
	if i := strings.IndexByte(want, '-'); i >= 0 {
		country = want[i+1:]
	}
	for _, v := range c.voices {
		if strings.HasSuffix(strings.ToUpper(v.Locale), "-"+strings.ToUpper(country)) {
			return v
		}
	}

	return c.voices[0]
}
