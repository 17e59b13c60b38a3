package types

import "time"

// TimeRange is one segment's extent in source time, in seconds.
// Ranges in a cut plan are sorted ascending and never overlap.
type TimeRange struct {
	Start float64
	End   float64

	// Score is the highlight score when the range was picked by the
	// highlight scorer, zero otherwise.
	Score float64
}

func (r TimeRange) Duration() float64 { return r.End - r.Start }

// MediaInfo describes an opened source video.
type MediaInfo struct {
	Path     string
	Duration float64 // seconds
	FPS      float64
	Width    int
	Height   int
	HasAudio bool
}

// GrayFrame is a downsampled grayscale frame sampled from a source video.
type GrayFrame struct {
	Timestamp float64 // seconds from start of source
	Width     int
	Height    int
	Pix       []byte // len == Width*Height, row-major
}

// RGBFrame is a downsampled packed-RGB frame sampled from a source video.
type RGBFrame struct {
	Timestamp float64
	Width     int
	Height    int
	Pix       []byte // len == Width*Height*3, row-major, R G B
}

// EngagementSample holds the per-timestamp engagement features computed
// during highlight analysis. All sub-scores are normalized to [0,1].
type EngagementSample struct {
	Timestamp      float64
	MotionScore    float64
	AudioEnergy    float64
	FacePresence   float64
	ColorVibrancy  float64
	TextPresence   float64
	TotalScore     float64
	HighlightScore float64
}

// ClipRecord describes one successfully encoded output clip. Records are
// created in encode order and never mutated afterwards.
type ClipRecord struct {
	Filename    string    `json:"filename"`
	Filepath    string    `json:"filepath"`
	ClipNumber  int       `json:"clip_number"`
	StartTime   float64   `json:"start_time"`
	EndTime     float64   `json:"end_time"`
	Duration    float64   `json:"duration"`
	Timestamp   time.Time `json:"timestamp"`
	Quality     string    `json:"quality"`
	SourceVideo string    `json:"source_video"`
}

// VideoMetadata is the JSON document written after processing one source
// video, summarizing the run and the full ordered clip list.
type VideoMetadata struct {
	ProjectName        string       `json:"project_name"`
	SourceVideo        string       `json:"source_video"`
	TotalClips         int          `json:"total_clips"`
	ClipDuration       float64      `json:"clip_duration"`
	Quality            string       `json:"quality"`
	QualityDescription string       `json:"quality_description"`
	CreatedAt          time.Time    `json:"created_at"`
	Clips              []ClipRecord `json:"clips"`
}
