// Package pipeline turns a validated configuration into a wired, running
// split job. It owns config validation and adapter construction; everything
// below it is reachable through the usecase ports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/forPelevin/vidsplit/internal/domain/cutplan"
	"github.com/forPelevin/vidsplit/internal/domain/highlights"
	"github.com/forPelevin/vidsplit/internal/domain/scenes"
	"github.com/forPelevin/vidsplit/internal/logging"
	"github.com/forPelevin/vidsplit/internal/naming"
	"github.com/forPelevin/vidsplit/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/vidsplit/internal/quality"
	"github.com/forPelevin/vidsplit/internal/usecase"
)

type Config struct {
	// Input is a video file, or a directory in batch and split-all modes.
	Input     string
	OutputDir string

	ClipDuration  float64
	MinClipLength float64
	Quality       string
	NamingPattern string
	ProjectName   string

	SceneDetection   bool
	SceneThreshold   float64
	MinSceneDuration float64
	SceneMinGap      float64

	Highlights    bool
	MaxHighlights int
	Weights       highlights.Weights
	Boosts        highlights.Boosts

	Batch         bool
	Resume        bool
	ResolveExport bool

	FFmpegPath  string
	FFprobePath string

	Verbose bool
}

// DefaultConfig returns the shipped defaults; flag and file overrides are
// applied on top.
func DefaultConfig() Config {
	return Config{
		OutputDir:        "clips",
		ClipDuration:     30,
		MinClipLength:    cutplan.DefaultMinLength,
		Quality:          quality.HD.String(),
		NamingPattern:    naming.DefaultPattern,
		SceneThreshold:   scenes.DefaultThreshold,
		MinSceneDuration: scenes.DefaultMinSceneDuration,
		SceneMinGap:      scenes.DefaultMinGap,
		MaxHighlights:    highlights.DefaultMaxClips,
		Weights:          highlights.DefaultWeights(),
		Boosts:           highlights.DefaultBoosts(),
	}
}

// fileConfig mirrors the TOML settings file. Pointer fields distinguish
// "not set" from zero values so a file only overrides what it names.
type fileConfig struct {
	OutputDir        *string  `toml:"output_dir"`
	ClipDuration     *float64 `toml:"clip_duration"`
	MinClipLength    *float64 `toml:"min_clip_length"`
	Quality          *string  `toml:"quality"`
	NamingPattern    *string  `toml:"naming_pattern"`
	ProjectName      *string  `toml:"project_name"`
	SceneDetection   *bool    `toml:"scene_detection"`
	SceneThreshold   *float64 `toml:"scene_threshold"`
	MinSceneDuration *float64 `toml:"min_scene_duration"`
	SceneMinGap      *float64 `toml:"scene_min_gap"`
	Highlights       *bool    `toml:"highlights"`
	MaxHighlights    *int     `toml:"max_highlights"`
	ResolveExport    *bool    `toml:"resolve_export"`
	FFmpegPath       *string  `toml:"ffmpeg_path"`
	FFprobePath      *string  `toml:"ffprobe_path"`

	Weights *weightsFile `toml:"weights"`
	Boosts  *boostsFile  `toml:"boosts"`
}

// weightsFile and boostsFile mirror the optional [weights] and [boosts]
// tables for tuning the engagement scorer.
type weightsFile struct {
	Motion *float64 `toml:"motion"`
	Audio  *float64 `toml:"audio"`
	Face   *float64 `toml:"face"`
	Color  *float64 `toml:"color"`
	Text   *float64 `toml:"text"`
}

type boostsFile struct {
	MidVideo *float64 `toml:"mid_video"`
	Edge     *float64 `toml:"edge"`
	Audio    *float64 `toml:"audio"`
	Face     *float64 `toml:"face"`
}

// ApplyFile overlays settings from a TOML file onto c.
func (c *Config) ApplyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	setIf(&c.OutputDir, fc.OutputDir)
	setIf(&c.ClipDuration, fc.ClipDuration)
	setIf(&c.MinClipLength, fc.MinClipLength)
	setIf(&c.Quality, fc.Quality)
	setIf(&c.NamingPattern, fc.NamingPattern)
	setIf(&c.ProjectName, fc.ProjectName)
	setIf(&c.SceneDetection, fc.SceneDetection)
	setIf(&c.SceneThreshold, fc.SceneThreshold)
	setIf(&c.MinSceneDuration, fc.MinSceneDuration)
	setIf(&c.SceneMinGap, fc.SceneMinGap)
	setIf(&c.Highlights, fc.Highlights)
	setIf(&c.MaxHighlights, fc.MaxHighlights)
	setIf(&c.ResolveExport, fc.ResolveExport)
	setIf(&c.FFmpegPath, fc.FFmpegPath)
	setIf(&c.FFprobePath, fc.FFprobePath)
	if fc.Weights != nil {
		setIf(&c.Weights.Motion, fc.Weights.Motion)
		setIf(&c.Weights.Audio, fc.Weights.Audio)
		setIf(&c.Weights.Face, fc.Weights.Face)
		setIf(&c.Weights.Color, fc.Weights.Color)
		setIf(&c.Weights.Text, fc.Weights.Text)
	}
	if fc.Boosts != nil {
		setIf(&c.Boosts.MidVideo, fc.Boosts.MidVideo)
		setIf(&c.Boosts.Edge, fc.Boosts.Edge)
		setIf(&c.Boosts.Audio, fc.Boosts.Audio)
		setIf(&c.Boosts.Face, fc.Boosts.Face)
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Validate fails fast on impossible configurations, before any media work.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is required")
	}
	info, err := os.Stat(c.Input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.Batch && !info.IsDir() {
		return fmt.Errorf("batch mode needs a directory, got file %s", c.Input)
	}
	if c.OutputDir == "" {
		return errors.New("output dir is required")
	}
	if c.ClipDuration <= 0 {
		return fmt.Errorf("clip duration must be > 0, got %v", c.ClipDuration)
	}
	if c.MinClipLength <= 0 {
		return fmt.Errorf("min clip length must be > 0, got %v", c.MinClipLength)
	}
	if c.MinClipLength > c.ClipDuration {
		return fmt.Errorf("min clip length %v exceeds clip duration %v", c.MinClipLength, c.ClipDuration)
	}
	if _, err := quality.ParsePreset(c.Quality); err != nil {
		return err
	}
	if c.SceneThreshold <= 0 || c.SceneThreshold > 1 {
		return fmt.Errorf("scene threshold must be in (0, 1], got %v", c.SceneThreshold)
	}
	if c.MinSceneDuration < 0 || c.SceneMinGap < 0 {
		return errors.New("scene durations must not be negative")
	}
	if c.MaxHighlights <= 0 {
		return fmt.Errorf("max highlights must be > 0, got %v", c.MaxHighlights)
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Boosts.Validate(); err != nil {
		return err
	}
	if c.Resume && !c.Batch {
		return errors.New("resume only applies to batch mode")
	}
	if c.SceneDetection && c.Highlights {
		return errors.New("scene detection and highlight mode are mutually exclusive")
	}
	return nil
}

// Run wires adapters into the splitter and dispatches on the input kind:
// a file is split directly, a directory runs batch or split-all mode.
func Run(ctx context.Context, cfg Config) error {
	log := logging.New(cfg.Verbose)

	preset, err := quality.ParsePreset(cfg.Quality)
	if err != nil {
		return err
	}

	adapter := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath, log)

	splitter, err := usecase.New(usecase.Deps{
		Encoder: adapter,
		Prober:  adapter,
		Frames:  adapter,
		Audio:   adapter,
	}, usecase.Options{
		InputDir:       cfg.Input,
		OutputDir:      cfg.OutputDir,
		ClipDuration:   cfg.ClipDuration,
		MinClipLength:  cfg.MinClipLength,
		Quality:        preset,
		NamingPattern:  cfg.NamingPattern,
		ProjectName:    cfg.ProjectName,
		SceneDetection: cfg.SceneDetection,
		SceneOptions: scenes.Options{
			Threshold:        cfg.SceneThreshold,
			MinSceneDuration: cfg.MinSceneDuration,
			MinGap:           cfg.SceneMinGap,
		},
		Highlights:    cfg.Highlights,
		MaxHighlights: cfg.MaxHighlights,
		Weights:       cfg.Weights,
		Boosts:        cfg.Boosts,
		Resume:        cfg.Resume,
		ResolveExport: cfg.ResolveExport,
	}, log)
	if err != nil {
		return err
	}

	info, err := os.Stat(cfg.Input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		res, err := splitter.SplitVideo(ctx, cfg.Input)
		if err != nil {
			return err
		}
		log.Info().
			Int("clips", len(res.Clips)).
			Str("metadata", res.MetadataPath).
			Msg("done")
		return nil
	}

	var res usecase.BatchResult
	if cfg.Batch {
		res, err = splitter.ProcessBatch(ctx)
	} else {
		res, err = splitter.SplitAll(ctx)
	}
	if err != nil {
		return err
	}
	log.Info().
		Int("discovered", res.Discovered).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Bool("interrupted", res.Interrupted).
		Msg("done")
	return nil
}
