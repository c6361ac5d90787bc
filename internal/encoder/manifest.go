package encoder

import (
	"fmt"
	"strings"
)

// ImageSeconds is the fixed display duration per scene snapshot.
const ImageSeconds = 4.0

// imageManifest builds a concat-demuxer manifest of timed images. The
// last entry is repeated without a duration, which is how the demuxer
// wants the final frame pinned.
func imageManifest(paths []string, seconds float64) string {
	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, "file '%s'\n", p)
		fmt.Fprintf(&b, "duration %.2f\n", seconds)
	}
	if len(paths) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", paths[len(paths)-1])
	}
	return b.String()
}

// audioManifest builds a concat manifest of the successfully synthesized
// clips. Entries are already in scene order; empty slots (no narration
// or failed synthesis) are skipped.
func audioManifest(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		if p == "" {
			continue
		}
		fmt.Fprintf(&b, "file '%s'\n", p)
	}
	return b.String()
}

// audioClipCount reports how many clips the manifest will carry.
func audioClipCount(paths []string) int {
	n := 0
	for _, p := range paths {
		if p != "" {
			n++
		}
	}
	return n
}
