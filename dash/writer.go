package dash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/castforge/castforge/clock"
	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/module"
	"github.com/rs/zerolog"
)

// Input indices a Writer expects to be wired to, matching
// original_source's AUDIO_PKT/VIDEO_PKT routing in MPEG_DASH::process.
const (
	AudioInput = 0
	VideoInput = 1
)

// Writer is a sink module.Module that pairs audio and video buffers in
// lock-step and periodically serializes an MPD plus segment placeholders to
// outDir (original_source's Modules::Stream::MPEG_DASH). Because pairing two
// independently-arriving pins needs its own queue discipline distinct from
// the generic per-input dispatch pipeline.PipelinedModule provides, Writer
// keeps its own internal audio/video queues and a dedicated goroutine
// (run), exactly as the original's workingThread does, rather than
// reacting to Process calls directly.
type Writer struct {
	module.Base

	log     *zerolog.Logger
	clock   *clock.Clock
	profile Profile
	outDir  string

	audioCh chan *data.Data
	videoCh chan *data.Data

	mu       sync.Mutex
	segNum   uint64
	notifies int // matches original's numDataQueueNotify
	started  bool
	wg       sync.WaitGroup
}

// NewWriter builds a Writer. A nil clk defaults to a fresh Clock ticking at
// clock.Rate, used to pace live-mode segment generation.
func NewWriter(profile Profile, outDir string, clk *clock.Clock, log *zerolog.Logger) (*Writer, error) {
	if _, err := NewMPD(profile); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New(clock.Rate)
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	w := &Writer{
		log:     log,
		clock:   clk,
		profile: profile,
		outDir:  outDir,
		audioCh: make(chan *data.Data, 64),
		videoCh: make(chan *data.Data, 64),
	}
	w.notifies = 2 // audio + video inputs, matching original's numDataQueueNotify
	w.AddInput(nil, 0)
	w.AddInput(nil, 0)
	return w, nil
}

// Process routes d onto the audio or video internal queue according to
// inputIndex, starting the pairing worker on first call.
func (w *Writer) Process(inputIndex int, d *data.Data) error {
	if err := w.CheckClosed(); err != nil {
		return err
	}

	w.mu.Lock()
	if !w.started {
		w.started = true
		w.wg.Add(1)
		go w.run()
	}
	w.mu.Unlock()

	// Process returns before run's goroutine dequeues and consumes d, so the
	// per-connection reference the pipeline dispatcher Unrefs right after
	// this call returns would otherwise let the buffer recycle out from
	// under the queue. Ref here to hold it open; run Unrefs once it is done.
	switch inputIndex {
	case AudioInput:
		w.audioCh <- d.Ref()
	case VideoInput:
		w.videoCh <- d.Ref()
	default:
		w.log.Warn().Int("input", inputIndex).Msg("dash: undeclared input, discarding")
	}
	return nil
}

// run pairs audio+video buffers in lock-step and serializes a fresh MPD
// after each pair, sleeping until the next segment boundary in live mode
// (original_source's MPEG_DASH::DASHThread).
func (w *Writer) run() {
	defer w.wg.Done()
	var n uint64
	for {
		a := <-w.audioCh
		v := <-w.videoCh
		if data.IsEOS(a) || data.IsEOS(v) {
			a.Unref()
			v.Unref()
			return
		}

		w.generate(n, a, v)
		a.Unref()
		v.Unref()

		if w.profile.Live {
			targetTick := int64(n+1) * w.profile.SegDurationMs * w.clock.Rate() / 1000
			w.clock.SleepUntil(targetTick)
		}
		n++
	}
}

// generate serializes the current MPD and a placeholder segment file for
// this pair. original_source emits real ISOBMFF fragments here; actual
// segment payload generation is out of scope.
func (w *Writer) generate(segNum uint64, audio, video *data.Data) {
	mpd, err := NewMPD(w.profile)
	if err != nil {
		w.log.Error().Err(err).Msg("dash: failed to build MPD")
		return
	}

	var sb strings.Builder
	mpd.Serialize(&sb)

	if err := os.WriteFile(filepath.Join(w.outDir, "dash.mpd"), []byte(sb.String()), 0o644); err != nil {
		w.log.Error().Err(err).Msg("dash: failed to write manifest")
		return
	}

	for _, seg := range []struct {
		rep *Representation
		d   *data.Data
	}{
		{&w.profile.Audio, audio},
		{&w.profile.Video, video},
	} {
		if seg.rep.ID == "" {
			continue
		}
		name := fmt.Sprintf("%s.mp4_%d", seg.rep.ID, segNum)
		if err := os.WriteFile(filepath.Join(w.outDir, name), seg.d.Bytes(), 0o644); err != nil {
			w.log.Error().Err(err).Str("segment", name).Msg("dash: failed to write segment")
		}
	}

	w.mu.Lock()
	w.segNum = segNum + 1
	w.mu.Unlock()
}

// Flush waits for the pairing worker to drain (original's endOfStream: push
// a nil sentinel on both queues and join the worker thread).
func (w *Writer) Flush() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return nil
	}
	w.audioCh <- nil
	w.videoCh <- nil
	w.wg.Wait()
	return nil
}

// SegmentCount returns the number of segment pairs generated so far.
func (w *Writer) SegmentCount() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.segNum
}
