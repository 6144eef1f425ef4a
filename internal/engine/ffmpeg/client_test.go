package ffmpeg

import (
	"reflect"
	"testing"

	"shuttle/internal/policy"
)

func TestBuildArgsTranscode(t *testing.T) {
	pol := policy.ClipPolicy{
		VideoCodec:   "libx265",
		VideoPreset:  "delivery",
		VideoBitrate: 10000,
		AudioCodec:   "aac",
	}

	got := BuildArgs("/in/a.mp4", pol, "/out/clip_000.mkv")
	expected := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", "/in/a.mp4",
		"-c:v", "libx265",
		"-b:v", "10000k",
		"-preset", "medium",
		"-c:a", "aac",
		"/out/clip_000.mkv",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("args:\n  expected %v\n  got      %v", expected, got)
	}
}

func TestBuildArgsPassthroughOmitsEncodeFlags(t *testing.T) {
	pol := policy.ClipPolicy{
		VideoCodec:   "copy",
		VideoPreset:  "delivery",
		VideoBitrate: 10000,
		AudioCodec:   "copy",
	}

	got := BuildArgs("/in/a.mkv", pol, "/out/clip_000.mkv")
	expected := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", "/in/a.mkv",
		"-c:v", "copy",
		"-c:a", "copy",
		"/out/clip_000.mkv",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("args:\n  expected %v\n  got      %v", expected, got)
	}
}

func TestPresetNameMapping(t *testing.T) {
	tests := []struct {
		ladder string
		speed  string
	}{
		{"proxy", "veryfast"},
		{"delivery", "medium"},
		{"archive", "slow"},
	}
	for _, tc := range tests {
		if got := presetName(tc.ladder); got != tc.speed {
			t.Errorf("preset %s: expected %s, got %s", tc.ladder, tc.speed, got)
		}
	}
}

func TestWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg/bin/ffmpeg"))
	if cli.binary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("binary override lost: %q", cli.binary)
	}
	if NewCLI(WithBinary("")).binary != "ffmpeg" {
		t.Error("empty override should keep the default")
	}
}
