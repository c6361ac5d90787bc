package system

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/mem"
)

// MinEncodeHeadroom is the amount of free memory required before a render
// job is admitted. Encoding a 720p slideshow with ffmpeg peaks well below
// this, so the margin covers concurrent jobs too.
const MinEncodeHeadroom uint64 = 256 << 20

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] failed to read open file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] failed to raise open file limit: %v", err)
	} else {
		log.Printf("[*] open file limit raised to %d", rLimit.Cur)
	}
}

// MemoryHeadroom reports the available system memory. ok is false when the
// platform does not expose memory statistics, in which case callers should
// admit the work rather than refuse it.
func MemoryHeadroom() (free uint64, ok bool) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, false
	}
	return vm.Available, true
}

// ProbeDuration returns the duration of a media file in seconds using ffprobe.
func ProbeDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

// GetBestH264Encoder picks the fastest H.264 encoder ffmpeg was built with.
// Hardware encoders are preferred; libx264 always works as the fallback.
func GetBestH264Encoder() string {
	encoders := []string{
		"h264_videotoolbox",
		"h264_nvenc",
	}

	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, enc := range encoders {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}

	return "libx264"
}
