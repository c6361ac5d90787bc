// Package export is the client-side render pipeline: it steps the
// playback scheduler through all scenes, captures each one, and hands
// the collected snapshots and narration scripts to the remote encoder.
package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thakurp/shopreel/internal/encoder"
	"github.com/thakurp/shopreel/internal/scene"
)

// SettleDelay is the fixed wait before each capture so the scene's
// entrance transition has finished.
const SettleDelay = 1200 * time.Millisecond

// ErrExportInFlight rejects a second export while one is capturing or
// encoding. Single-flight is cooperative: callers disable the trigger,
// this is the backstop.
var ErrExportInFlight = errors.New("an export is already running")

// Status is the render job lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusCapturing
	StatusEncoding
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCapturing:
		return "capturing"
	case StatusEncoding:
		return "encoding"
	case StatusDone:
		return "done"
	}
	return "failed"
}

// Job is a snapshot of one export attempt.
type Job struct {
	SessionID string
	Status    Status
	Progress  int
	Err       error
}

// Timeline is what the orchestrator needs from the playback scheduler:
// take over transitions, silence it, and step through scenes.
type Timeline interface {
	Mute()
	SetDriven(driven bool)
	Seek(index int) error
}

// Snapshotter captures the currently rendered scene.
type Snapshotter interface {
	Snapshot() ([]byte, error)
}

// SnapshotFunc adapts a function to the Snapshotter interface.
type SnapshotFunc func() ([]byte, error)

func (f SnapshotFunc) Snapshot() ([]byte, error) { return f() }

// RenderClient submits a finished capture set to the remote encoder.
type RenderClient interface {
	Render(ctx context.Context, req encoder.RenderRequest) ([]byte, error)
}

// Orchestrator runs at most one export at a time.
type Orchestrator struct {
	timeline Timeline
	snap     Snapshotter
	client   RenderClient
	scripts  []string
	language scene.Language

	// Settle overrides SettleDelay; tests set it to zero.
	Settle time.Duration

	mu      sync.Mutex
	running bool
	job     Job
}

func NewOrchestrator(t Timeline, snap Snapshotter, client RenderClient, scenes [scene.Count]scene.Scene, lang scene.Language) *Orchestrator {
	return &Orchestrator{
		timeline: t,
		snap:     snap,
		client:   client,
		scripts:  scene.Narrations(scenes),
		language: lang,
		Settle:   SettleDelay,
	}
}

// Job returns the current job snapshot.
func (o *Orchestrator) Job() Job {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.job
}

// Export runs the full pipeline and returns the video bytes. On any
// failure the job is marked Failed, one consolidated error is returned,
// and the scheduler is reset to scene 0. There is no mid-flight
// cancellation: once started, a job runs to Done or Failed.
func (o *Orchestrator) Export(ctx context.Context) (video []byte, err error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, ErrExportInFlight
	}
	o.running = true
	o.job = Job{SessionID: uuid.NewString(), Status: StatusCapturing}
	o.mu.Unlock()

	// Unexpected panics from collaborators collapse into the same
	// consolidated failure path instead of crashing the preview.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("export failed: %v", r)
			o.finish(StatusFailed, err)
		}
	}()

	// Export must not compete with live voiced playback.
	o.timeline.Mute()
	o.timeline.SetDriven(true)

	images := make([]string, 0, scene.Count)
	for i := 0; i < scene.Count; i++ {
		if err := o.timeline.Seek(i); err != nil {
			o.finish(StatusFailed, err)
			return nil, fmt.Errorf("export failed: %w", err)
		}
		o.settle(ctx)

		data, err := o.snap.Snapshot()
		if err != nil {
			o.finish(StatusFailed, err)
			return nil, fmt.Errorf("export failed at scene %d: %w", i, err)
		}
		images = append(images, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
		o.setProgress(StatusCapturing, (i+1)*15) // 15..75 across the capture loop
	}

	o.setProgress(StatusEncoding, 80)
	log.Printf("[*] export %s: submitting %d frames", o.Job().SessionID, len(images))

	video, rerr := o.client.Render(ctx, encoder.RenderRequest{
		Images:   images,
		Script:   append([]string(nil), o.scripts...),
		Language: string(o.language),
	})
	if rerr != nil {
		o.finish(StatusFailed, rerr)
		return nil, fmt.Errorf("export failed: %w", rerr)
	}

	o.setProgress(StatusDone, 100)
	o.finish(StatusDone, nil)
	return video, nil
}

func (o *Orchestrator) settle(ctx context.Context) {
	if o.Settle <= 0 {
		return
	}
	select {
	case <-time.After(o.Settle):
	case <-ctx.Done():
	}
}

func (o *Orchestrator) setProgress(st Status, p int) {
	o.mu.Lock()
	o.job.Status = st
	if p > o.job.Progress {
		o.job.Progress = p
	}
	o.mu.Unlock()
}

// finish records the terminal state and always resets the scheduler to
// scene 0 with control handed back to the user.
func (o *Orchestrator) finish(st Status, err error) {
	o.mu.Lock()
	o.job.Status = st
	o.job.Err = err
	o.running = false
	o.mu.Unlock()

	o.timeline.SetDriven(false)
	if serr := o.timeline.Seek(0); serr != nil {
		log.Printf("[!] scheduler reset failed: %v", serr)
	}
}
