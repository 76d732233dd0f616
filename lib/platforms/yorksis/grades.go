package yorksis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"yorkgrades/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type CourseData struct {
	Session string `json:"session"`
	Course  string `json:"course"`
	Title   string `json:"title"`
	Grade   string `json:"grade"`
}

func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		inner := strings.TrimSpace(htmlutil.InnerHTML(td.Get(0)))
		cells = append(cells, htmlutil.DecodeEntities(inner))
	})
	return cells
}

// parseGrades reads the first table.bodytext. Rows without td cells are
// headers or separators and are skipped.
func parseGrades(doc *goquery.Document) ([]CourseData, error) {
	table := doc.Find("table.bodytext")
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}

	grades := []CourseData{}
	var err error
	table.First().Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := rowCells(row)
		if len(cells) == 0 {
			return true
		}
		if len(cells) < 4 {
			err = fmt.Errorf("%w: row %d has %d", ErrRowShape, i, len(cells))
			return false
		}
		grades = append(grades, CourseData{
			Session: cells[0],
			Course:  cells[1],
			Title:   cells[2],
			Grade:   cells[3],
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return grades, nil
}

// ScrapeGrades reads the course list of an authenticated session.
func (c *Client) ScrapeGrades(ctx context.Context) ([]CourseData, error) {
	ctx, span := tracer.Start(ctx, "yorksis.ScrapeGrades")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.Endpoints.CourseList)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch course list")
		return nil, fmt.Errorf("%w: fetch course list: %w", ErrTransport, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse course list")
		return nil, fmt.Errorf("%w: %w", ErrMalformedPage, err)
	}

	grades, err := parseGrades(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read grade table")
		return nil, err
	}

	span.SetAttributes(attribute.Int("courses", len(grades)))
	coursesScraped.Add(ctx, int64(len(grades)))
	slog.DebugContext(ctx, "scraped course list", "courses", len(grades))

	return grades, nil
}
