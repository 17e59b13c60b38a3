package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "vidsplit <input>",
		Short:        "Split videos into clips by interval, scene or highlight",
		Long: `vidsplit cuts a video (or a whole directory of videos) into clips.

By default the source is split into fixed-length segments. Scene detection
cuts on visual discontinuities instead; highlight mode scores the video for
engagement and keeps only the best moments.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	flags := root.Flags()
	flags.StringP("output", "o", "clips", "Output directory")
	flags.Float64P("duration", "d", 30, "Clip duration in seconds (fixed-interval mode)")
	flags.Float64("min-length", 10, "Minimum clip length in seconds")
	flags.StringP("quality", "q", "hd", "Quality preset: sd, hd, 4k or original")
	flags.String("naming", "", "Filename pattern, e.g. {name}_part_{num:03d}")
	flags.String("project-name", "", "Project name used in filenames and exports")

	flags.BoolP("scene-detection", "s", false, "Cut on detected scene changes")
	flags.Float64("scene-threshold", 0.3, "Scene similarity threshold (lower = fewer cuts)")
	flags.Float64("min-scene-duration", 10, "Minimum scene length in seconds")

	flags.Bool("highlights", false, "Keep only the highest-engagement moments")
	flags.Int("max-highlights", 10, "Maximum highlight clips per video")

	flags.BoolP("batch", "b", false, "Process a directory with resumable progress")
	flags.Bool("resume", false, "Resume an interrupted batch")

	flags.Bool("resolve", false, "Write a DaVinci Resolve import script")
	flags.StringP("config", "c", "", "TOML settings file")
	flags.BoolP("verbose", "v", false, "Debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
