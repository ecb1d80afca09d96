package meta

import (
	"encoding/json"
	"os/exec"
	"strconv"
)

// ffprobe supplies the audio properties tags cannot: duration and bitrate.
// It is strictly optional; when the binary is absent the properties stay
// zero and nothing else changes.

type ffprobeInfo struct {
	Format *ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

var ffprobePath = func() string {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return ""
	}
	return path
}()

// probeAudioProperties fills DurationMS and Bitrate from ffprobe when
// available. Failures are swallowed: a missing probe never fails extraction.
func probeAudioProperties(path string, e *Extracted) {
	if ffprobePath == "" {
		return
	}

	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return
	}

	var info ffprobeInfo
	if err := json.Unmarshal(output, &info); err != nil || info.Format == nil {
		return
	}

	if seconds, err := strconv.ParseFloat(info.Format.Duration, 64); err == nil && seconds > 0 {
		e.DurationMS = int(seconds * 1000)
	}
	if bitrate, err := strconv.Atoi(info.Format.BitRate); err == nil && bitrate > 0 {
		e.Bitrate = bitrate
	}
}
