// Package export serializes an annotation session into the error_info
// payload consumed by the downstream labeling tools.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"trajview/internal/annotate"
)

// DefaultFileName is the suggested name for the exported payload.
const DefaultFileName = "error_info.json"

// Entry is one errorInfo element. Data is []int for the real-time entry
// and [][2]int for the calibrated one; Reason is only present on the
// latter, index-aligned with Data.
type Entry struct {
	Type   string   `json:"type"`
	Data   any      `json:"data"`
	Reason []string `json:"reason,omitempty"`
}

// Payload is the exported file body.
type Payload struct {
	FileName  string  `json:"fileName"`
	ErrorInfo []Entry `json:"errorInfo"`
}

// Build assembles the payload from the raw markers and the intervals,
// resolving each interval against the episode length. calibrated.data[i]
// and calibrated.reason[i] describe the same annotation as
// real-time.data[i].
func Build(fileName string, markers []int, intervals []annotate.Interval, totalFrames int) Payload {
	if fileName == "" {
		fileName = "uploaded.json"
	}

	rawMarkers := make([]int, len(markers))
	copy(rawMarkers, markers)

	calibrated := make([][2]int, len(intervals))
	reasons := make([]string, len(intervals))
	for i, iv := range intervals {
		start, end := iv.Resolve(totalFrames)
		calibrated[i] = [2]int{start, end}
		reasons[i] = iv.Reason
	}

	return Payload{
		FileName: fileName,
		ErrorInfo: []Entry{
			{Type: "real-time", Data: rawMarkers},
			{Type: "calibrated", Data: calibrated, Reason: reasons},
		},
	}
}

// Encode renders the payload with two-space indentation, matching what the
// downstream tools already parse.
func Encode(p Payload) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export payload: %w", err)
	}
	return data, nil
}

// WriteFile encodes the payload and writes it to path.
func WriteFile(path string, p Payload) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}
