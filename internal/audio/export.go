package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/oil-strike/internal/sim"
)

// LoopPreview is how much of each endless loop ExportWAV renders.
const LoopPreview = 2 * time.Second

var wavFormat = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// ExportWAV renders every cue and a preview of every loop into dir as
// 16-bit stereo WAV files. It returns the written paths.
func ExportWAV(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audio: cannot create directory %s: %w", dir, err)
	}

	var paths []string
	for _, c := range sim.AllCues {
		path := filepath.Join(dir, c.String()+".wav")
		if err := writeWAV(path, Sound(c)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	for _, l := range sim.AllLoops {
		path := filepath.Join(dir, "loop_"+l.String()+".wav")
		if err := writeWAV(path, beep.Take(SampleRate.N(LoopPreview), LoopSound(l))); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeWAV(path string, s beep.Streamer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: cannot create %s: %w", path, err)
	}
	if err := wav.Encode(f, s, wavFormat); err != nil {
		f.Close()
		return fmt.Errorf("audio: cannot encode %s: %w", path, err)
	}
	return f.Close()
}
