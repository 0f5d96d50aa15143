package batch

import (
	"fmt"
	"path/filepath"
)

// ReportHeaders names the columns produced by Rows.
var ReportHeaders = []string{"File", "Track", "Score", "Reviewed", "Removed", "Status"}

// Rows flattens the report for table rendering.
func (r Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Files))
	for _, f := range r.Files {
		track, score, reviewed, removed := "-", "-", "-", "-"
		if f.Status == StatusWritten || f.Status == StatusAborted {
			track = f.Track.Label()
			score = f.Score.String()
			reviewed = fmt.Sprintf("%d/%d", f.Stats.Reviewed, f.Stats.Reviewed+f.Stats.Unresolved)
			removed = fmt.Sprintf("%d", f.Stats.Removed)
		}
		status := string(f.Status)
		if f.Status == StatusFailed && f.Err != nil {
			status = fmt.Sprintf("%s: %v", f.Status, f.Err)
		}
		rows = append(rows, []string{filepath.Base(f.Input), track, score, reviewed, removed, status})
	}
	return rows
}
