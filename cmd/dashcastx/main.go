// Command dashcastx wires a file source into a DASH manifest writer,
// mirroring original_source's src/apps/dashcastx/main.cpp + options.cpp,
// rewritten onto cobra/pflag. Real demuxing into separate audio/video
// elementary streams is out of scope; the source's single output fans out
// to both of the writer's inputs so the lock-step pairing logic still has
// two streams to pair.
package main

import (
	"fmt"
	"os"

	"github.com/castforge/castforge/clock"
	"github.com/castforge/castforge/dash"
	"github.com/castforge/castforge/modules/in"
	"github.com/castforge/castforge/pipeline"
	"github.com/castforge/castforge/xlog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var live bool
	var segDurMs int64
	var res string

	cmd := &cobra.Command{
		Use:     "dashcastx [options] <URL>",
		Short:   "Package a media source into a DASH manifest and segments",
		Args:    cobra.ArbitraryArgs,
		Example: "  dashcastx file.ts\n  dashcastx -l -s 10000 file.mp4\n  dashcastx --live --res 1280x720 file.mp4",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := resolveArgs(args)
			if err != nil {
				return err
			}
			w, h, err := parseResolution(res)
			if err != nil {
				return err
			}
			return run(Options{URL: url, Live: live, SegDurationMs: segDurMs, Width: w, Height: h})
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&live, "live", "l", false, "run at system clock pace with low-latency settings")
	flags.Int64VarP(&segDurMs, "seg-dur", "s", 2000, "segment duration in milliseconds")
	flags.StringVarP(&res, "res", "r", "", "video resolution, as WxH")
	return cmd
}

func run(opts Options) error {
	log := xlog.New(xlog.ParseLevel("info"), true)
	clk := clock.New(clock.Rate)

	src, err := in.NewFile(opts.URL, clk, 8)
	if err != nil {
		return fmt.Errorf("dashcastx: opening %s: %w", opts.URL, err)
	}

	width, height := opts.Width, opts.Height
	if width == 0 {
		width, height = 1280, 720
	}
	profile := dash.Profile{
		Live:          opts.Live,
		SegDurationMs: opts.SegDurationMs,
		Audio: dash.Representation{
			ID: "0", MimeType: "audio/mp4", Codecs: "mp4a.40.2", SampleRate: 44100, Bandwidth: 59557,
		},
		Video: dash.Representation{
			ID: "1", MimeType: "video/mp4", Codecs: "avc1.64001f",
			Width: width, Height: height, FrameRate: 24, Bandwidth: 1230111,
		},
	}

	writer, err := dash.NewWriter(profile, ".", clk, log)
	if err != nil {
		return fmt.Errorf("dashcastx: %w", err)
	}

	p := pipeline.New(opts.Live, log)
	srcPM := p.AddModule(src)
	sinkPM := p.AddModule(writer)

	if err := p.Connect(srcPM, 0, sinkPM, dash.AudioInput); err != nil {
		return err
	}
	if err := p.Connect(srcPM, 0, sinkPM, dash.VideoInput); err != nil {
		return err
	}

	p.Start()
	p.Wait()
	return nil
}
