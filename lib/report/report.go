package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"yorkgrades/lib/gpa"
	"yorkgrades/lib/platforms/yorksis"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Output struct {
	GPA    gpa.GPA              `json:"gpa"`
	Grades []yorksis.CourseData `json:"grades"`
}

// WriteJSON writes the output as a single line of json.
func WriteJSON(w io.Writer, out Output) error {
	if out.Grades == nil {
		out.Grades = []yorksis.CourseData{}
	}
	enc := json.NewEncoder(w)
	// titles can contain markup, keep it readable
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetOutputMirror(w)
	return t
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// WriteTables writes the gpa table followed by the grade table.
func WriteTables(w io.Writer, out Output) error {
	_, err := fmt.Fprintln(w, "GPA:")
	if err != nil {
		return err
	}
	gpaTable := newTable(w)
	gpaTable.AppendHeader(table.Row{"Four Point", "Nine Point"})
	gpaTable.AppendRow(table.Row{formatFloat(out.GPA.Four), formatFloat(out.GPA.Nine)})
	gpaTable.Render()

	_, err = fmt.Fprint(w, "\nGrades:\n")
	if err != nil {
		return err
	}
	gradeTable := newTable(w)
	gradeTable.AppendHeader(table.Row{"Session", "Course", "Title", "Grade"})
	for _, g := range out.Grades {
		gradeTable.AppendRow(table.Row{g.Session, g.Course, g.Title, g.Grade})
	}
	gradeTable.Render()

	return nil
}
