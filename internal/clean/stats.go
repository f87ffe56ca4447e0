package clean

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

type counter struct {
	Count int
	Bytes int
}

func (c *counter) add(saved int) {
	c.Count++
	if saved > 0 {
		c.Bytes += saved
	}
}

// Stats counts what one pass removed, per category.
type Stats struct {
	Thinking    counter
	ReadContent counter
	WriteInput  counter
	WriteResult counter
	EditInput   counter
	EditResult  counter
	BashOutput  counter
	Filenames   counter
	Plan        counter
	TaskOutput  counter
	Progress    counter
	Prompt      counter
	Meta        counter
	Images      counter
	BashTags    counter
	Marked      counter
	Paths       counter
	Duplicates  counter
	SessionIDs  int
}

func (s *Stats) TotalSaved() int {
	total := 0
	for _, row := range s.rows() {
		total += row.c.Bytes
	}
	return total
}

type statRow struct {
	name string
	c    counter
}

func (s *Stats) rows() []statRow {
	return []statRow{
		{"Thinking blocks", s.Thinking},
		{"Read results", s.ReadContent},
		{"Write inputs", s.WriteInput},
		{"Write results", s.WriteResult},
		{"Edit inputs", s.EditInput},
		{"Edit results", s.EditResult},
		{"Bash outputs", s.BashOutput},
		{"File lists", s.Filenames},
		{"Plans", s.Plan},
		{"Task outputs", s.TaskOutput},
		{"Progress output", s.Progress},
		{"Agent prompts", s.Prompt},
		{"Meta content", s.Meta},
		{"Images", s.Images},
		{"Command output tags", s.BashTags},
		{"Marked spans", s.Marked},
		{"Paths shortened", s.Paths},
		{"Duplicate results", s.Duplicates},
	}
}

// WriteSummary prints the per-category breakdown, skipping empty rows.
func (s *Stats) WriteSummary(w io.Writer) {
	for _, row := range s.rows() {
		if row.c.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-20s %4d cleaned (%s bytes)\n",
			row.name+":", row.c.Count, humanize.Comma(int64(row.c.Bytes)))
	}
	if s.SessionIDs > 0 {
		fmt.Fprintf(w, "  %-20s %4d entries\n", "Session id updated:", s.SessionIDs)
	}
}
