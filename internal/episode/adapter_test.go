package episode

import (
	"strings"
	"testing"
)

const recordedEpisode = `{
	"staticInfo": {
		"grid": [["X","X","X"],["X"," ","P"],["X","X","X"]],
		"width": 3,
		"height": 3,
		"cookTime": 15,
		"layoutName": "cramped_room"
	},
	"dynamicState": [
		{
			"timestep": 0,
			"score": 0,
			"players": [
				{
					"id": 0,
					"position": {"x": 1, "y": 2},
					"orientation": "north",
					"heldObject": {"name": "onion", "position": {"x": 1, "y": 2}}
				}
			],
			"objects": [
				{"name": "soup", "position": {"x": 1, "y": 0}, "isCooking": true}
			]
		},
		{"timestep": 1, "score": 20, "players": [], "objects": []}
	]
}`

func TestAdaptSwapsRecordedAxes(t *testing.T) {
	ep, warnings, err := Adapt([]byte(recordedEpisode), "round1.json", 0)
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if ep.FileName != "round1.json" || len(ep.Frames) != 2 {
		t.Fatalf("episode = %q with %d frames", ep.FileName, len(ep.Frames))
	}

	// Recorded (x=row 1, y=col 2) becomes display (x=col 2, y=row 1).
	p := ep.Frames[0].Players[0]
	if p.Position != (Position{X: 2, Y: 1}) {
		t.Errorf("player position = %v, want {2 1}", p.Position)
	}
	if p.HeldObject == nil || p.HeldObject.Position != (Position{X: 2, Y: 1}) {
		t.Errorf("held object position not swapped: %+v", p.HeldObject)
	}
	o := ep.Frames[0].Objects[0]
	if o.Position != (Position{X: 0, Y: 1}) || !o.IsCooking {
		t.Errorf("object = %+v, want soup at {0 1} cooking", o)
	}

	if got := ep.StaticInfo.CookDuration(); got != 15 {
		t.Errorf("cook duration = %d, want 15", got)
	}
	if got := ep.StaticInfo.Layout(); got != "cramped_room" {
		t.Errorf("layout = %q", got)
	}
}

func TestAdaptAcceptsFramesFieldName(t *testing.T) {
	data := strings.Replace(recordedEpisode, `"dynamicState"`, `"frames"`, 1)
	ep, warnings, err := Adapt([]byte(data), "round2.json", 0)
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(ep.Frames) != 2 {
		t.Errorf("frames = %d, want 2", len(ep.Frames))
	}
}

func TestAdaptTruncatesWithWarning(t *testing.T) {
	ep, warnings, err := Adapt([]byte(recordedEpisode), "round1.json", 1)
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if len(ep.Frames) != 1 {
		t.Errorf("frames = %d, want 1", len(ep.Frames))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "truncated") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestAdaptUnrecognizedShapeDegrades(t *testing.T) {
	ep, warnings, err := Adapt([]byte(`{"staticInfo": {"width": 3, "height": 3}}`), "odd.json", 0)
	if err != nil {
		t.Fatalf("Adapt should degrade, not fail: %v", err)
	}
	if len(ep.Frames) != 0 {
		t.Errorf("frames = %d, want 0", len(ep.Frames))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unexpected format") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestAdaptRejectsMalformedJSON(t *testing.T) {
	if _, _, err := Adapt([]byte(`{"staticInfo":`), "broken.json", 0); err == nil {
		t.Error("malformed JSON should be an error")
	}
}
