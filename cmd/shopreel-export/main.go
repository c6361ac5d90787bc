// shopreel-export renders an offer video from the command line: it
// builds the five scenes, drives the playback scheduler through them,
// captures every frame and submits the set to a running shopreel
// server for encoding.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strings"
	"time"

	"github.com/thakurp/shopreel/internal/capture"
	"github.com/thakurp/shopreel/internal/export"
	"github.com/thakurp/shopreel/internal/narrator"
	"github.com/thakurp/shopreel/internal/playback"
	"github.com/thakurp/shopreel/internal/scene"
	"github.com/thakurp/shopreel/internal/sharecode"
	"github.com/thakurp/shopreel/internal/visual"
)

// silentNarrator satisfies the scheduler without producing audio. The
// exporter keeps playback muted; narration is synthesized server-side
// during the encode.
type silentNarrator struct{}

func (silentNarrator) Speak(context.Context, string, scene.Language) narrator.Result {
	return narrator.Completed
}
func (silentNarrator) Cancel() {}

func main() {
	linkPtr := flag.String("link", "", "Share link or token to render (overrides the individual fields)")
	shopPtr := flag.String("shop", "", "Shop name")
	typePtr := flag.String("type", "", "Shop type, e.g. Kirana Store")
	productPtr := flag.String("product", "", "Product name")
	discountPtr := flag.String("discount", "", "Discount text, e.g. 20% OFF")
	addressPtr := flag.String("address", "", "Shop address")
	phonePtr := flag.String("phone", "", "Contact number")
	langPtr := flag.String("lang", "other", "Narration language: hindi or other")
	visualPtr := flag.String("visual", "", "Product image or PDF catalog page for the product scene")
	shareURLPtr := flag.String("share-url", "", "URL encoded into the contact scene QR code")
	serverPtr := flag.String("server", "http://localhost:8080", "shopreel server base URL")
	outPtr := flag.String("out", "offer_video.mp4", "Output MP4 path")
	widthPtr := flag.Int("width", 720, "Frame width")
	heightPtr := flag.Int("height", 1280, "Frame height")
	settlePtr := flag.Duration("settle", export.SettleDelay, "Wait per scene before capture")
	flag.Parse()

	input, err := buildInput(*linkPtr, scene.Input{
		ShopName:      *shopPtr,
		ShopType:      *typePtr,
		ProductName:   *productPtr,
		Discount:      *discountPtr,
		Address:       *addressPtr,
		ContactNumber: *phonePtr,
		Language:      scene.Language(*langPtr),
	})
	if err != nil {
		log.Fatalf("[!] %v", err)
	}
	if input.ShopName == "" {
		log.Fatalf("[!] a shop name is required (-shop or -link)")
	}

	var visualImg image.Image
	if *visualPtr != "" {
		src, err := visual.Open(*visualPtr)
		if err != nil {
			log.Fatalf("[!] product visual: %v", err)
		}
		defer src.Close()
		if visualImg, err = src.Image(); err != nil {
			log.Fatalf("[!] product visual: %v", err)
		}
		log.Printf("[*] product visual loaded from %s", *visualPtr)
	}

	scenes := scene.Build(input)
	renderer, err := capture.NewSceneRenderer(*widthPtr, *heightPtr, visualImg, *shareURLPtr)
	if err != nil {
		log.Fatalf("[!] renderer: %v", err)
	}

	scheduler := playback.NewScheduler(scenes, input.Language, silentNarrator{}, playback.RealClock())
	scheduler.Start()
	defer scheduler.Close()

	service := capture.NewService()
	surface := capture.SceneSurface(renderer, scheduler.Scene)
	snap := export.SnapshotFunc(func() ([]byte, error) {
		return service.Capture(surface)
	})

	orch := export.NewOrchestrator(scheduler, snap, export.NewClient(*serverPtr), scenes, input.Language)
	orch.Settle = *settlePtr

	done := make(chan struct{})
	go reportProgress(orch, done)

	start := time.Now()
	video, err := orch.Export(context.Background())
	close(done)
	if err != nil {
		log.Fatalf("[!] %v", err)
	}

	if err := os.WriteFile(*outPtr, video, 0o644); err != nil {
		log.Fatalf("[!] write %s: %v", *outPtr, err)
	}
	log.Printf("[+] %s written (%d KiB) in %s", *outPtr, len(video)/1024, time.Since(start).Round(time.Second))
}

// buildInput resolves the offer either from a share link or from the
// individual flags.
func buildInput(link string, fromFlags scene.Input) (scene.Input, error) {
	if link == "" {
		return fromFlags, nil
	}

	token := link
	if i := strings.LastIndex(link, "/v/"); i >= 0 {
		token = link[i+len("/v/"):]
	}
	state, err := sharecode.Decode(token)
	if err != nil {
		return scene.Input{}, fmt.Errorf("share link: %w", err)
	}
	return state.SceneInput(), nil
}

func reportProgress(orch *export.Orchestrator, done <-chan struct{}) {
	last := -1
	for {
		select {
		case <-done:
			return
		case <-time.After(200 * time.Millisecond):
			job := orch.Job()
			if job.Progress != last {
				last = job.Progress
				log.Printf("[>] %s %d%%", job.Status, job.Progress)
			}
		}
	}
}
