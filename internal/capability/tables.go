package capability

// The capability tables below are the single authority for routing. They are
// read-only constants; nothing may add to or override them at runtime.

// rawResolveCodecs are camera-RAW codecs Resolve develops in any edition.
var rawResolveCodecs = map[string]struct{}{
	"braw":      {},
	"r3d":       {},
	"cinemadng": {},
}

// editionGatedCodecs are camera-RAW codecs Resolve develops only in a
// specific edition. The required edition travels with the classification and
// is checked against the detected edition at dispatch time, not here.
var editionGatedCodecs = map[string]Edition{
	"arriraw": EditionStudio,
	"x-ocn":   EditionStudio,
}

// blockedRawCodecs are RAW flavors with no safe decode path in either
// engine. The value is the explicit rejection reason.
var blockedRawCodecs = map[string]string{
	"prores_raw": "prores_raw has no decode path in ffmpeg or resolve",
	"nraw":       "nraw requires a licensed sdk neither engine ships",
}

// ffmpegCodecs is the general-purpose set FFmpeg transcodes directly.
var ffmpegCodecs = map[string]struct{}{
	"h264":   {},
	"hevc":   {},
	"av1":    {},
	"vp9":    {},
	"prores": {},
	"dnxhd":  {},
	"dnxhr":  {},
	"ffv1":   {},
	"mpeg2":  {},
}

// ffmpegContainers are the containers FFmpeg demuxes for the codecs above.
// A known codec in an unknown container is still rejected; container
// guessing is exactly the heuristic this table exists to forbid.
var ffmpegContainers = map[string]struct{}{
	"mov":  {},
	"mp4":  {},
	"mkv":  {},
	"mxf":  {},
	"avi":  {},
	"webm": {},
	"mts":  {},
}
