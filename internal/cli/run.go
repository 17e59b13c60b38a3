package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forPelevin/vidsplit/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	flags := cmd.Flags()

	cfg := pipeline.DefaultConfig()

	// Layering: defaults, then the settings file, then explicit flags.
	if path, _ := flags.GetString("config"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return err
		}
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	cfg.Input = absIn

	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("duration") {
		cfg.ClipDuration, _ = flags.GetFloat64("duration")
	}
	if flags.Changed("min-length") {
		cfg.MinClipLength, _ = flags.GetFloat64("min-length")
	}
	if flags.Changed("quality") {
		cfg.Quality, _ = flags.GetString("quality")
	}
	if flags.Changed("naming") {
		cfg.NamingPattern, _ = flags.GetString("naming")
	}
	if flags.Changed("project-name") {
		cfg.ProjectName, _ = flags.GetString("project-name")
	}
	if flags.Changed("scene-detection") {
		cfg.SceneDetection, _ = flags.GetBool("scene-detection")
	}
	if flags.Changed("scene-threshold") {
		cfg.SceneThreshold, _ = flags.GetFloat64("scene-threshold")
	}
	if flags.Changed("min-scene-duration") {
		cfg.MinSceneDuration, _ = flags.GetFloat64("min-scene-duration")
	}
	if flags.Changed("highlights") {
		cfg.Highlights, _ = flags.GetBool("highlights")
	}
	if flags.Changed("max-highlights") {
		cfg.MaxHighlights, _ = flags.GetInt("max-highlights")
	}
	if flags.Changed("batch") {
		cfg.Batch, _ = flags.GetBool("batch")
	}
	if flags.Changed("resume") {
		cfg.Resume, _ = flags.GetBool("resume")
	}
	if flags.Changed("resolve") {
		cfg.ResolveExport, _ = flags.GetBool("resolve")
	}
	cfg.Verbose, _ = flags.GetBool("verbose")

	cfg.FFmpegPath = getenvDefault("VIDSPLIT_FFMPEG", "ffmpeg")
	cfg.FFprobePath = getenvDefault("VIDSPLIT_FFPROBE", "ffprobe")

	// Resuming implies batch mode; asking for both is just redundant.
	if cfg.Resume {
		cfg.Batch = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Interrupts cancel the context so a running batch stops between
	// segments and persists its ledger before exiting.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return pipeline.Run(ctx, cfg)
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
