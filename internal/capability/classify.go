package capability

import (
	"fmt"

	"golang.org/x/text/cases"

	"shuttle/internal/jobspec"
)

// Engine is the closed set of execution engines. Routing matches on it
// exhaustively; there is no registry to extend.
type Engine string

const (
	EngineFFmpeg  Engine = "ffmpeg"
	EngineResolve Engine = "resolve"
)

// Edition identifies an installed Resolve edition.
type Edition string

const (
	EditionFree   Edition = "free"
	EditionStudio Edition = "studio"
)

// SourceDescriptor is the classification input: what the document claims the
// clip is, never what probing found.
type SourceDescriptor struct {
	Codec     string
	Container string
}

// Classification is the routing fact derived for one source.
type Classification struct {
	Engine Engine
	// Raw is set for camera-RAW sources that Resolve must develop.
	Raw bool
	// RequiresEdition is non-empty for edition-gated RAW formats.
	RequiresEdition Edition
}

// RejectionError reports a source that no engine may receive.
type RejectionError struct {
	Descriptor SourceDescriptor
	Reason     string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("source %s/%s rejected: %s", e.Descriptor.Codec, e.Descriptor.Container, e.Reason)
}

// foldCaser normalizes codec and container names for table lookup without
// locale-dependent lowercasing.
var foldCaser = cases.Fold()

// Classify maps a source descriptor to its engine. Rules apply in order with
// no fallback between branches: RAW-and-Resolve-capable, edition-gated RAW,
// unconditionally blocked RAW, FFmpeg-supported, then rejection.
func Classify(desc SourceDescriptor) (Classification, error) {
	codec := foldCaser.String(desc.Codec)
	container := foldCaser.String(desc.Container)

	if _, ok := rawResolveCodecs[codec]; ok {
		return Classification{Engine: EngineResolve, Raw: true}, nil
	}
	if edition, ok := editionGatedCodecs[codec]; ok {
		return Classification{Engine: EngineResolve, Raw: true, RequiresEdition: edition}, nil
	}
	if reason, ok := blockedRawCodecs[codec]; ok {
		return Classification{}, &RejectionError{Descriptor: desc, Reason: "blocked: " + reason}
	}
	if _, ok := ffmpegCodecs[codec]; ok {
		if _, ok := ffmpegContainers[container]; ok {
			return Classification{Engine: EngineFFmpeg}, nil
		}
		return Classification{}, &RejectionError{Descriptor: desc, Reason: fmt.Sprintf("unknown container %q", desc.Container)}
	}
	return Classification{}, &RejectionError{Descriptor: desc, Reason: "unknown format"}
}

// ClassifyClip classifies one ClipSpec.
func ClassifyClip(clip jobspec.ClipSpec) (Classification, error) {
	return Classify(SourceDescriptor{Codec: clip.Codec, Container: clip.Container})
}
