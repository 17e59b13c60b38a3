// Package usecase orchestrates splitting: probing sources, planning cuts,
// driving the encoder segment by segment and persisting batch progress. All
// media work goes through the ports so the whole flow is testable with fakes.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/vidsplit/internal/domain/cutplan"
	"github.com/forPelevin/vidsplit/internal/domain/highlights"
	"github.com/forPelevin/vidsplit/internal/domain/scenes"
	"github.com/forPelevin/vidsplit/internal/export/resolve"
	"github.com/forPelevin/vidsplit/internal/ledger"
	"github.com/forPelevin/vidsplit/internal/naming"
	"github.com/forPelevin/vidsplit/internal/ports"
	"github.com/forPelevin/vidsplit/internal/quality"
	"github.com/forPelevin/vidsplit/internal/types"
)

// supportedExtensions are the container formats picked up during directory
// discovery. Lowercase, with dot.
var supportedExtensions = map[string]struct{}{
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {},
	".flv": {}, ".wmv": {}, ".webm": {},
}

// rgbSampleHz is the frame sampling rate used for highlight analysis.
const rgbSampleHz = 1.0

type Deps struct {
	Encoder ports.Encoder
	Prober  ports.Prober
	Frames  ports.FrameSampler
	Audio   ports.AudioSampler
}

// Options are the per-job knobs. Zero values fall back to the shipped
// defaults in New.
type Options struct {
	InputDir  string
	OutputDir string

	ClipDuration  float64 // seconds, fixed-interval mode
	MinClipLength float64
	Quality       quality.Preset
	NamingPattern string
	ProjectName   string

	SceneDetection bool
	SceneStride    int
	SceneOptions   scenes.Options

	Highlights    bool
	MaxHighlights int
	Weights       highlights.Weights
	Boosts        highlights.Boosts
	FaceScore     highlights.FaceScoreFunc

	Resume        bool
	ResolveExport bool
}

type Splitter struct {
	d    Deps
	opts Options
	log  zerolog.Logger
}

func New(d Deps, opts Options, log zerolog.Logger) (*Splitter, error) {
	if opts.ClipDuration <= 0 {
		opts.ClipDuration = 30
	}
	if opts.MinClipLength <= 0 {
		opts.MinClipLength = cutplan.DefaultMinLength
	}
	if opts.Quality == "" {
		opts.Quality = quality.HD
	}
	if opts.NamingPattern == "" {
		opts.NamingPattern = naming.DefaultPattern
	}
	if opts.SceneStride <= 0 {
		opts.SceneStride = scenes.DefaultSampleStride
	}
	if opts.SceneOptions == (scenes.Options{}) {
		opts.SceneOptions = scenes.DefaultOptions()
	}
	if opts.MaxHighlights <= 0 {
		opts.MaxHighlights = highlights.DefaultMaxClips
	}
	if opts.Weights == (highlights.Weights{}) {
		opts.Weights = highlights.DefaultWeights()
	}
	if err := opts.Weights.Validate(); err != nil {
		return nil, err
	}
	if opts.Boosts == (highlights.Boosts{}) {
		opts.Boosts = highlights.DefaultBoosts()
	}
	if err := opts.Boosts.Validate(); err != nil {
		return nil, err
	}
	if opts.FaceScore == nil {
		opts.FaceScore = highlights.SkinToneFaceScore
	}
	return &Splitter{
		d:    d,
		opts: opts,
		log:  log.With().Str("component", "splitter").Logger(),
	}, nil
}

// SplitResult summarizes one processed source video.
type SplitResult struct {
	SourceVideo    string
	Clips          []types.ClipRecord
	FailedSegments int
	MetadataPath   string
}

// SplitVideo splits a single source video into clips under OutputDir.
// An unreadable source aborts the whole video; a failed segment is logged,
// counted and skipped so one bad cut never loses the rest.
func (s *Splitter) SplitVideo(ctx context.Context, path string) (SplitResult, error) {
	info, err := s.d.Prober.Probe(ctx, path)
	if err != nil {
		return SplitResult{}, err
	}

	plan, err := s.planCuts(ctx, info)
	if err != nil {
		return SplitResult{}, err
	}
	if len(plan) == 0 {
		return SplitResult{}, fmt.Errorf("no cuttable ranges in %s (duration %.1fs)", path, info.Duration)
	}

	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return SplitResult{}, fmt.Errorf("create output dir: %w", err)
	}

	stem := naming.CleanFilename(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	res := SplitResult{SourceVideo: filepath.Base(path)}

	for i, r := range plan {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		filename := naming.Format(s.opts.NamingPattern, naming.Clip{
			Name:      stem,
			Num:       i + 1,
			Duration:  s.opts.ClipDuration,
			Timestamp: r.Start,
			Project:   s.opts.ProjectName,
		})
		outPath := filepath.Join(s.opts.OutputDir, filename)

		s.log.Info().
			Str("clip", filename).
			Float64("start", r.Start).
			Float64("duration", r.Duration()).
			Msg("encoding clip")

		if err := s.d.Encoder.EncodeSegment(ctx, path, r.Start, r.Duration(), outPath, s.opts.Quality); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			if errors.Is(err, ports.ErrEncodeFailed) {
				s.log.Error().Err(err).Str("clip", filename).Msg("segment failed, skipping")
				res.FailedSegments++
				continue
			}
			return res, err
		}

		res.Clips = append(res.Clips, types.ClipRecord{
			Filename:    filename,
			Filepath:    outPath,
			ClipNumber:  i + 1,
			StartTime:   r.Start,
			EndTime:     r.End,
			Duration:    r.Duration(),
			Timestamp:   time.Now().UTC(),
			Quality:     s.opts.Quality.String(),
			SourceVideo: res.SourceVideo,
		})
	}

	metaPath, err := s.writeMetadata(stem, res)
	if err != nil {
		return res, err
	}
	res.MetadataPath = metaPath

	if s.opts.ResolveExport && len(res.Clips) > 0 {
		project := s.opts.ProjectName
		if project == "" {
			project = stem
		}
		if err := resolve.WriteProject(s.opts.OutputDir, project, res.Clips); err != nil {
			return res, err
		}
	}

	s.log.Info().
		Int("clips", len(res.Clips)).
		Int("failed", res.FailedSegments).
		Str("source", res.SourceVideo).
		Msg("video split finished")
	return res, nil
}

// planCuts chooses the cut plan for one probed source. Highlight and scene
// analysis both fall back to fixed-interval splitting when they find nothing.
func (s *Splitter) planCuts(ctx context.Context, info types.MediaInfo) ([]types.TimeRange, error) {
	if s.opts.Highlights {
		plan, err := s.planHighlights(ctx, info)
		if err != nil {
			return nil, err
		}
		if len(plan) > 0 {
			return plan, nil
		}
		s.log.Warn().Str("source", info.Path).Msg("no highlights found, falling back to fixed intervals")
	} else if s.opts.SceneDetection {
		frames, err := s.d.Frames.SampleGray(ctx, info.Path, s.opts.SceneStride)
		if err != nil {
			return nil, fmt.Errorf("scene sampling: %w", err)
		}
		cuts := scenes.Detect(frames, s.opts.SceneOptions)
		plan := cutplan.FromSceneCuts(cuts, info.Duration, s.opts.MinClipLength)
		if len(plan) > 0 {
			s.log.Info().Int("scenes", len(plan)).Str("source", info.Path).Msg("scene cuts detected")
			return plan, nil
		}
		s.log.Warn().Str("source", info.Path).Msg("no usable scenes, falling back to fixed intervals")
	}

	return cutplan.FixedInterval(info.Duration, s.opts.ClipDuration, s.opts.MinClipLength), nil
}

func (s *Splitter) planHighlights(ctx context.Context, info types.MediaInfo) ([]types.TimeRange, error) {
	rgb, err := s.d.Frames.SampleRGB(ctx, info.Path, rgbSampleHz)
	if err != nil {
		return nil, fmt.Errorf("highlight sampling: %w", err)
	}
	if len(rgb) == 0 {
		return nil, nil
	}

	rms, err := s.d.Audio.WindowRMS(ctx, info.Path, 1/rgbSampleHz)
	if err != nil {
		return nil, fmt.Errorf("audio analysis: %w", err)
	}

	features := make([]highlights.Features, 0, len(rgb))
	for i, f := range rgb {
		audio := 0.0
		if i < len(rms) {
			audio = highlights.AudioEnergy(rms[i])
		}
		features = append(features, highlights.Features{
			Timestamp: f.Timestamp,
			Motion:    highlights.MotionScore(highlights.Grayscale(f)),
			Audio:     audio,
			Face:      s.opts.FaceScore(f),
			Color:     highlights.ColorVibrancy(f),
		})
	}

	samples := highlights.ScoreSamples(features, info.Duration, s.opts.Weights, s.opts.Boosts)
	return highlights.SelectClips(samples, info.Duration, s.opts.MaxHighlights), nil
}

func (s *Splitter) writeMetadata(stem string, res SplitResult) (string, error) {
	settings := s.opts.Quality.Settings()
	meta := types.VideoMetadata{
		ProjectName:        s.opts.ProjectName,
		SourceVideo:        res.SourceVideo,
		TotalClips:         len(res.Clips),
		ClipDuration:       s.opts.ClipDuration,
		Quality:            s.opts.Quality.String(),
		QualityDescription: settings.Description,
		CreatedAt:          time.Now().UTC(),
		Clips:              res.Clips,
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	path := filepath.Join(s.opts.OutputDir, stem+"_metadata.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	return path, nil
}

// BatchResult summarizes a batch run over a directory.
type BatchResult struct {
	Discovered  int
	Skipped     int // already in the ledger from a previous run
	Succeeded   int
	Failed      int
	Interrupted bool
}

// ProcessBatch splits every supported video in InputDir. Progress is
// persisted to a ledger after every video, success or failure, so an
// interrupted batch resumes where it stopped. The ledger is deleted only
// when the whole batch completes.
func (s *Splitter) ProcessBatch(ctx context.Context) (BatchResult, error) {
	videos, err := DiscoverVideos(s.opts.InputDir)
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Discovered: len(videos)}
	if len(videos) == 0 {
		s.log.Info().Str("dir", s.opts.InputDir).Msg("no supported videos found")
		return res, nil
	}

	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	led := ledger.New(filepath.Join(s.opts.OutputDir, ledger.Filename), s.log)
	doc := ledger.Document{}
	if s.opts.Resume {
		doc = led.Load()
	}
	if doc.JobID == "" {
		doc = ledger.NewDocument(ledger.Settings{
			ClipDuration:   s.opts.ClipDuration,
			Quality:        s.opts.Quality.String(),
			SceneDetection: s.opts.SceneDetection,
			NamingPattern:  s.opts.NamingPattern,
		})
	}
	processed := doc.Processed()

	var pending []string
	for _, v := range videos {
		if _, done := processed[filepath.Base(v)]; done {
			res.Skipped++
			continue
		}
		pending = append(pending, v)
	}
	if len(pending) == 0 {
		s.log.Info().Int("videos", len(videos)).Msg("all videos already processed, nothing to do")
		return res, led.Delete()
	}

	s.log.Info().
		Int("videos", len(pending)).
		Int("skipped", res.Skipped).
		Str("job_id", doc.JobID).
		Msg("starting batch")

	for _, path := range pending {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}

		_, err := s.SplitVideo(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				res.Interrupted = true
				break
			}
			s.log.Error().Err(err).Str("video", path).Msg("video failed, continuing batch")
			res.Failed++
		} else {
			res.Succeeded++
		}

		// Failed videos are recorded too; retrying a known-bad source on
		// every resume gets the batch nowhere.
		doc.ProcessedVideos = append(doc.ProcessedVideos, filepath.Base(path))
		if err := led.Save(doc); err != nil {
			return res, err
		}
	}

	if res.Interrupted {
		s.log.Warn().
			Int("succeeded", res.Succeeded).
			Int("remaining", len(pending)-res.Succeeded-res.Failed).
			Msg("batch interrupted, progress saved")
		return res, nil
	}

	s.log.Info().
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Msg("batch complete")
	return res, led.Delete()
}

// SplitAll is the single-pass directory mode: every supported video is
// processed once, continuing past failures, with no progress ledger.
func (s *Splitter) SplitAll(ctx context.Context) (BatchResult, error) {
	videos, err := DiscoverVideos(s.opts.InputDir)
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Discovered: len(videos)}

	for _, path := range videos {
		if ctx.Err() != nil {
			res.Interrupted = true
			return res, ctx.Err()
		}
		if _, err := s.SplitVideo(ctx, path); err != nil {
			if ctx.Err() != nil {
				res.Interrupted = true
				return res, ctx.Err()
			}
			s.log.Error().Err(err).Str("video", path).Msg("video failed, continuing")
			res.Failed++
			continue
		}
		res.Succeeded++
	}
	return res, nil
}

// DiscoverVideos lists the supported video files directly inside dir,
// sorted by name for deterministic processing order.
func DiscoverVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var videos []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := supportedExtensions[ext]; ok {
			videos = append(videos, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(videos)
	return videos, nil
}
