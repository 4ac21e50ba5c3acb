package restorer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"fedorabatch/pkg/core"
	"fedorabatch/pkg/meta"
)

// PrintRuns 以表格形式打印运行列表 (类似 git log --oneline)
func PrintRuns(runs []meta.RunModel, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "RUN\tSTARTED\tSTATUS\tSTREAM\tTRANSFORM\tWRITTEN\tQUERY\n")
	for _, r := range runs {
		status := string(r.Status)
		if r.DryRun {
			status += " (dry)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), status, r.Stream,
			r.Transform, r.Written, r.Resolved, r.Query)
	}
	return tw.Flush()
}

// PrintEdits 打印一次运行里的全部写回
func PrintEdits(edits []meta.EditModel, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "SEQ\tOBJECT\tSTREAM\tSIZE\tSNAPSHOT\n")
	for _, e := range edits {
		snap := "-"
		if len(e.SnapshotHash) >= 8 {
			snap = e.SnapshotHash[:8]
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Seq, e.ObjectID, e.Stream, fmtSize(int64(e.Bytes)), snap)
	}
	return tw.Flush()
}

// PrintSnapshot 打印快照头信息，之后是原始内容
func PrintSnapshot(s *core.Snapshot, w io.Writer) {
	fmt.Fprintf(w, "Type:    Snapshot\n")
	fmt.Fprintf(w, "Hash:    %s\n", s.ID())
	fmt.Fprintf(w, "Object:  %s\n", s.ObjectID)
	fmt.Fprintf(w, "Stream:  %s\n", s.Stream)
	fmt.Fprintf(w, "Size:    %s\n", fmtSize(int64(len(s.Content))))
	fmt.Fprintf(w, "\n%s\n", s.Content)
}

func fmtSize(s int64) string {
	if s < 1024 {
		return fmt.Sprintf("%dB", s)
	} else if s < 1024*1024 {
		return fmt.Sprintf("%.1fKB", float64(s)/1024)
	}
	return fmt.Sprintf("%.2fMB", float64(s)/1024/1024)
}
