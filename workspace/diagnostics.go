package workspace

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// BlobSize is one row of a SizeReport.
type BlobSize struct {
	Name string
	Dims []int64

	// Capacity is zero for blobs that share another blob's storage.
	Capacity uint64
	Percent  float64
}

// SizeReport lists local blobs whose payload type has a shape capability,
// ordered by capacity descending.
type SizeReport struct {
	Rows  []BlobSize
	Total uint64
}

// BlobSizes reports storage held by the workspace's own blobs. Blobs without
// a registered shape function are omitted, and sharing blobs count as zero so
// storage is not counted twice.
func (w *Workspace) BlobSizes() SizeReport {
	var r SizeReport
	for _, name := range w.LocalBlobs() {
		shape, ok := w.blobs[name].Shape()
		if !ok {
			continue
		}
		capacity := shape.Capacity
		if shape.SharesData {
			capacity = 0
		}
		r.Rows = append(r.Rows, BlobSize{Name: name, Dims: shape.Dims, Capacity: capacity})
		r.Total += capacity
	}

	// LocalBlobs is sorted, so equal capacities stay ordered by name.
	sort.SliceStable(r.Rows, func(i, j int) bool {
		return r.Rows[i].Capacity > r.Rows[j].Capacity
	})
	if r.Total > 0 {
		for i := range r.Rows {
			r.Rows[i].Percent = 100 * float64(r.Rows[i].Capacity) / float64(r.Total)
		}
	}
	return r
}

// Lines renders the report as semicolon separated text.
func (r SizeReport) Lines() []string {
	lines := make([]string, 0, len(r.Rows)+3)
	lines = append(lines,
		"---- Workspace blobs: ----",
		"name;current shape;capacity bytes;percentage",
	)
	for _, row := range r.Rows {
		var b strings.Builder
		b.WriteString(row.Name)
		b.WriteByte(';')
		for _, d := range row.Dims {
			b.WriteString(strconv.FormatInt(d, 10))
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, ";%d;%s%%", row.Capacity, formatPercent(row.Percent))
		lines = append(lines, b.String())
	}
	lines = append(lines, fmt.Sprintf("Total;;%d;100%%", r.Total))
	return lines
}

// WriteTo writes Lines to wr, one per line.
func (r SizeReport) WriteTo(wr io.Writer) (int64, error) {
	var total int64
	for _, line := range r.Lines() {
		n, err := io.WriteString(wr, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// PrintBlobSizes logs the size report at info level.
func (w *Workspace) PrintBlobSizes() {
	for _, line := range w.BlobSizes().Lines() {
		w.logger.Info(line)
	}
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'g', 3, 64)
}
