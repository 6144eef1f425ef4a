package jobspec

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
)

const sampleDocument = `
version = 1
title = "  Festival Reel  "
execution_requested = true

[settings]
video_target = "H265"
preset = "Delivery"
container = "MKV"

[[clips]]
source = " /media/in/a.mp4 "
codec = "H264"
container = "MP4"
width = 1920
height = 1080

[[clips]]
source = "/media/in/b.mov"
codec = "ProRes"
container = "MOV"
`

func TestParseDocumentNormalizes(t *testing.T) {
	spec, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if spec.Title != "Festival Reel" {
		t.Errorf("title not trimmed: %q", spec.Title)
	}
	if spec.Settings.VideoTarget != "h265" || spec.Settings.Preset != "delivery" || spec.Settings.Container != "mkv" {
		t.Errorf("settings not normalized: %+v", spec.Settings)
	}
	if spec.Clips[0].Source != "/media/in/a.mp4" {
		t.Errorf("source not trimmed: %q", spec.Clips[0].Source)
	}
	if spec.Clips[0].Codec != "h264" || spec.Clips[1].Codec != "prores" {
		t.Errorf("codecs not lowercased: %q, %q", spec.Clips[0].Codec, spec.Clips[1].Codec)
	}
	if !spec.ExecutionRequested {
		t.Error("execution_requested lost in parsing")
	}
}

func TestParseDocumentAssignsID(t *testing.T) {
	spec, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if _, err := uuid.Parse(spec.ID); err != nil {
		t.Errorf("assigned id %q is not a UUID: %v", spec.ID, err)
	}

	again, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if again.ID == spec.ID {
		t.Error("two parses of an id-less document must get distinct ids")
	}
}

func TestParseDocumentRejectsBadID(t *testing.T) {
	doc := strings.Replace(sampleDocument, "version = 1", "version = 1\nid = \"job-42\"", 1)
	if _, err := ParseDocument([]byte(doc)); err == nil {
		t.Fatal("expected rejection of a non-UUID id")
	}
}

func TestParseDocumentRejectsWrongVersion(t *testing.T) {
	doc := strings.Replace(sampleDocument, "version = 1", "version = 7", 1)
	_, err := ParseDocument([]byte(doc))
	if err == nil {
		t.Fatal("expected version rejection")
	}
	if !strings.Contains(err.Error(), "version") {
		t.Errorf("error should name the version problem, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *JobSpec {
		return &JobSpec{
			ID:      uuid.NewString(),
			Version: SchemaVersion,
			Clips: []ClipSpec{
				{Source: "/in/a.mp4", Codec: "h264", Container: "mp4"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*JobSpec)
		wantErr string
	}{
		{name: "valid", mutate: func(s *JobSpec) {}},
		{name: "missing id", mutate: func(s *JobSpec) { s.ID = "" }, wantErr: "id"},
		{name: "wrong version", mutate: func(s *JobSpec) { s.Version = 2 }, wantErr: "version"},
		{name: "no clips", mutate: func(s *JobSpec) { s.Clips = nil }, wantErr: "at least one clip"},
		{name: "clip missing source", mutate: func(s *JobSpec) { s.Clips[0].Source = "" }, wantErr: "source"},
		{name: "clip missing codec", mutate: func(s *JobSpec) { s.Clips[0].Codec = "" }, wantErr: "codec"},
		{name: "clip missing container", mutate: func(s *JobSpec) { s.Clips[0].Container = "" }, wantErr: "container"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := base()
			tc.mutate(spec)
			err := spec.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	spec, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	snapshot, err := spec.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	restored, err := FromSnapshot(snapshot)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if !reflect.DeepEqual(spec, restored) {
		t.Errorf("round trip changed the spec:\n  in:  %+v\n  out: %+v", spec, restored)
	}

	again, err := restored.Snapshot()
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if string(snapshot) != string(again) {
		t.Error("snapshot encoding is not stable")
	}
}
