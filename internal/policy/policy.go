package policy

import (
	"fmt"

	"shuttle/internal/capability"
	"shuttle/internal/jobspec"
)

// RulesVersion identifies the parameter rule tables baked into this build.
// It is recorded on every derived policy so results stay auditable after the
// rules change in a later release.
const RulesVersion = 1

// ExecutionClass describes, for reporting only, how a clip will be treated.
type ExecutionClass string

const (
	// ClassNativePassthrough remuxes without re-encoding video.
	ClassNativePassthrough ExecutionClass = "native-passthrough"
	// ClassTranscode re-encodes through FFmpeg.
	ClassTranscode ExecutionClass = "transcode"
	// ClassRawDevelop develops camera RAW through Resolve.
	ClassRawDevelop ExecutionClass = "raw-develop"
)

// ClipPolicy is the complete set of engine parameters for one clip. Engine
// clients translate it into command lines; nothing downstream derives
// parameters on its own.
type ClipPolicy struct {
	ClipIndex    int                `json:"clip_index"`
	Engine       capability.Engine  `json:"engine"`
	Class        ExecutionClass     `json:"class"`
	RulesVersion int                `json:"rules_version"`
	VideoCodec   string             `json:"video_codec"`
	VideoPreset  string             `json:"video_preset"`
	VideoBitrate int                `json:"video_bitrate_kbps"`
	AudioCodec   string             `json:"audio_codec"`
	Container    string             `json:"container"`
	RawEdition   capability.Edition `json:"raw_edition,omitempty"`
}

// DeriveError reports that no valid parameters exist for one clip. It
// isolates to that clip; siblings keep their derived policies.
type DeriveError struct {
	ClipIndex int
	Reason    string
}

func (e *DeriveError) Error() string {
	return fmt.Sprintf("clip %d: no valid policy: %s", e.ClipIndex, e.Reason)
}

// encoderByTarget maps the settings snapshot's video target onto concrete
// FFmpeg encoders. Closed table; unknown targets fail derivation.
var encoderByTarget = map[string]string{
	"h264": "libx264",
	"h265": "libx265",
	"av1":  "libsvtav1",
}

// codecByTarget maps the video target to the source codec name it matches
// for passthrough purposes.
var codecByTarget = map[string]string{
	"h264": "h264",
	"h265": "hevc",
	"av1":  "av1",
}

// presetLadders maps preset name to bitrate (kbps) by resolution tier:
// >=2160p, >=1080p, below.
var presetLadders = map[string][3]int{
	"proxy":    {8000, 3000, 1500},
	"delivery": {24000, 10000, 5000},
	"archive":  {60000, 30000, 15000},
}

// resolveRenderPresets maps the settings preset to Resolve render presets
// used when developing RAW sources.
var resolveRenderPresets = map[string]string{
	"proxy":    "ProxyMedia",
	"delivery": "DeliveryH265",
	"archive":  "ArchiveMaster",
}

// Derive produces one policy per clip. The returned slice is parallel to
// job.Clips; entries whose derivation failed are zero-valued and have a
// corresponding *DeriveError in the second return. A clip-level failure never
// aborts derivation of its siblings.
func Derive(job *jobspec.JobSpec, facts []capability.Classification) ([]ClipPolicy, []*DeriveError) {
	policies := make([]ClipPolicy, len(job.Clips))
	var failures []*DeriveError

	for i, clip := range job.Clips {
		if i >= len(facts) {
			failures = append(failures, &DeriveError{ClipIndex: i, Reason: "missing capability fact"})
			continue
		}
		pol, err := deriveClip(i, clip, facts[i], job.Settings)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		policies[i] = pol
	}
	return policies, failures
}

func deriveClip(index int, clip jobspec.ClipSpec, fact capability.Classification, settings jobspec.Settings) (ClipPolicy, *DeriveError) {
	container := settings.Container
	if container == "" {
		container = "mkv"
	}

	pol := ClipPolicy{
		ClipIndex:    index,
		Engine:       fact.Engine,
		RulesVersion: RulesVersion,
		AudioCodec:   "aac",
		Container:    container,
	}

	switch fact.Engine {
	case capability.EngineResolve:
		preset, ok := resolveRenderPresets[settings.Preset]
		if !ok {
			return ClipPolicy{}, &DeriveError{ClipIndex: index, Reason: fmt.Sprintf("no resolve render preset for %q", settings.Preset)}
		}
		pol.Class = ClassRawDevelop
		pol.VideoCodec = "hevc"
		pol.VideoPreset = preset
		pol.VideoBitrate = ladderBitrate(settings.Preset, clip.Height)
		pol.RawEdition = fact.RequiresEdition
		pol.Container = "mov"
		return pol, nil

	case capability.EngineFFmpeg:
		encoder, ok := encoderByTarget[settings.VideoTarget]
		if !ok {
			return ClipPolicy{}, &DeriveError{ClipIndex: index, Reason: fmt.Sprintf("no encoder for video target %q", settings.VideoTarget)}
		}
		if _, ok := presetLadders[settings.Preset]; !ok {
			return ClipPolicy{}, &DeriveError{ClipIndex: index, Reason: fmt.Sprintf("unknown preset %q", settings.Preset)}
		}
		if clip.Codec == codecByTarget[settings.VideoTarget] && clip.Container == container {
			pol.Class = ClassNativePassthrough
			pol.VideoCodec = "copy"
			pol.AudioCodec = "copy"
			return pol, nil
		}
		pol.Class = ClassTranscode
		pol.VideoCodec = encoder
		pol.VideoPreset = settings.Preset
		pol.VideoBitrate = ladderBitrate(settings.Preset, clip.Height)
		return pol, nil

	default:
		return ClipPolicy{}, &DeriveError{ClipIndex: index, Reason: fmt.Sprintf("unknown engine %q", fact.Engine)}
	}
}

func ladderBitrate(preset string, height int) int {
	ladder, ok := presetLadders[preset]
	if !ok {
		return 0
	}
	switch {
	case height >= 2160:
		return ladder[0]
	case height >= 1080:
		return ladder[1]
	default:
		return ladder[2]
	}
}
