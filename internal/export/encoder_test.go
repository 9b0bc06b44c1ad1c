package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trajview/internal/annotate"
)

// decodedPayload re-reads the encoded JSON with per-entry data shapes.
type decodedPayload struct {
	FileName  string `json:"fileName"`
	ErrorInfo []struct {
		Type   string          `json:"type"`
		Data   json.RawMessage `json:"data"`
		Reason []string        `json:"reason"`
	} `json:"errorInfo"`
}

func decode(t *testing.T, data []byte) decodedPayload {
	t.Helper()
	var p decodedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	return p
}

func TestBuildAndEncode(t *testing.T) {
	// One marker at frame 8, end offset widened to 15 in a 20-frame
	// episode: raw stays [8], calibrated clamps to [[6,19]].
	intervals := []annotate.Interval{
		{BaseFrame: 8, StartOffset: -2, EndOffset: 15, Reason: ""},
	}
	data, err := Encode(Build("round1.json", []int{8}, intervals, 20))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	p := decode(t, data)
	if p.FileName != "round1.json" {
		t.Errorf("fileName = %q", p.FileName)
	}
	if len(p.ErrorInfo) != 2 {
		t.Fatalf("errorInfo entries = %d, want 2", len(p.ErrorInfo))
	}

	rt := p.ErrorInfo[0]
	if rt.Type != "real-time" {
		t.Errorf("first entry type = %q", rt.Type)
	}
	var raw []int
	if err := json.Unmarshal(rt.Data, &raw); err != nil {
		t.Fatalf("real-time data: %v", err)
	}
	if len(raw) != 1 || raw[0] != 8 {
		t.Errorf("real-time data = %v, want [8]", raw)
	}
	if rt.Reason != nil {
		t.Errorf("real-time entry carries reasons: %v", rt.Reason)
	}

	cal := p.ErrorInfo[1]
	if cal.Type != "calibrated" {
		t.Errorf("second entry type = %q", cal.Type)
	}
	var windows [][2]int
	if err := json.Unmarshal(cal.Data, &windows); err != nil {
		t.Fatalf("calibrated data: %v", err)
	}
	if len(windows) != 1 || windows[0] != [2]int{6, 19} {
		t.Errorf("calibrated data = %v, want [[6 19]]", windows)
	}
	if len(cal.Reason) != 1 || cal.Reason[0] != "" {
		t.Errorf("calibrated reason = %v, want one empty string", cal.Reason)
	}
}

func TestEncodeUsesTwoSpaceIndent(t *testing.T) {
	intervals := []annotate.Interval{{BaseFrame: 4, StartOffset: -2, EndOffset: 2}}
	data, err := Encode(Build("r.json", []int{4}, intervals, 10))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"errorInfo\"") {
		t.Errorf("expected two-space indentation, got:\n%s", data)
	}
	// The real-time entry must never carry a reason key.
	if strings.Count(string(data), `"reason"`) != 1 {
		t.Errorf("expected exactly one reason key:\n%s", data)
	}
}

func TestBuildEmptySessionEncodesEmptyArrays(t *testing.T) {
	data, err := Encode(Build("", nil, nil, 0))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	p := decode(t, data)
	if p.FileName != "uploaded.json" {
		t.Errorf("default fileName = %q, want uploaded.json", p.FileName)
	}
	for _, entry := range p.ErrorInfo {
		if string(entry.Data) == "null" {
			t.Errorf("%s data encodes as null, want []", entry.Type)
		}
	}
}

func TestReasonsStayIndexAligned(t *testing.T) {
	intervals := []annotate.Interval{
		{BaseFrame: 3, StartOffset: -2, EndOffset: 2, Reason: "idles at the pot"},
		{BaseFrame: 9, StartOffset: -1, EndOffset: 1},
		{BaseFrame: 15, StartOffset: -2, EndOffset: 2, Reason: "wrong ingredient"},
	}
	p := Build("r.json", []int{3, 9, 15}, intervals, 30)
	reasons := p.ErrorInfo[1].Reason
	want := []string{"idles at the pot", "", "wrong ingredient"}
	if len(reasons) != len(want) {
		t.Fatalf("reasons = %v", reasons)
	}
	for i := range want {
		if reasons[i] != want[i] {
			t.Errorf("reason[%d] = %q, want %q", i, reasons[i], want[i])
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error_info.json")
	p := Build("r.json", []int{2}, []annotate.Interval{{BaseFrame: 2, StartOffset: -2, EndOffset: 2}}, 10)
	if err := WriteFile(path, p); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := decode(t, data); got.FileName != "r.json" {
		t.Errorf("round-trip fileName = %q", got.FileName)
	}
}
