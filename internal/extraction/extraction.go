package extraction

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/williampepple1/classinfo/internal/telemetry"
	"github.com/williampepple1/classinfo/pkg/models"
)

// Selectors for the rendered class list
const (
	ResultCellSelector = "div.class-results-cell"
	HeadingSelector    = ".pointer .bold-hyperlink"
	InstructorSelector = "div.class-results-cell.instructor"
	InstructorLink     = "a.link-color"
	DaysSelector       = ".class-results-cell.pull-left.days p"
	StartSelector      = ".class-results-cell.pull-left.start p"
	EndSelector        = ".class-results-cell.end p"
	LocationSelector   = ".class-results-cell.location p"
	DatesSelector      = ".class-results-cell.d-none.d-lg-block.dates p"
	UnitsSelector      = ".class-results-cell.d-none.d-lg-block.units"
	SeatsSelector      = ".seats .text-nowrap"
)

// Extractor pulls a class record out of a rendered catalog page
type Extractor struct {
	Log logrus.FieldLogger
}

// NewExtractor creates a new data extractor
func NewExtractor(log logrus.FieldLogger) *Extractor {
	return &Extractor{
		Log: log,
	}
}

// Extract builds a ClassRecord from the document. The boolean is false when
// the page holds no class listing or neither course nor title can be found.
func (e *Extractor) Extract(doc *goquery.Document, classNumber string) (models.ClassRecord, bool) {
	cells := doc.Find(ResultCellSelector)
	telemetry.Stage(e.Log, "DEBUG").Debugf("Found %d class result cells", cells.Length())
	if cells.Length() == 0 {
		telemetry.Stage(e.Log, "CLASS_NOT_FOUND").Info("No class information found")
		return models.ClassRecord{}, false
	}

	headings := doc.Find(HeadingSelector)
	course := nthText(headings, 0)
	title := nthText(headings, 1)
	telemetry.Stage(e.Log, "DEBUG").Debugf("Course: %s, Title: %s", course, title)

	if course == models.NotAvailable && title == models.NotAvailable {
		telemetry.Stage(e.Log, "CLASS_NOT_FOUND").Info("Basic class info (course/title) not found")
		return models.ClassRecord{}, false
	}

	start := firstText(doc, StartSelector)
	end := firstText(doc, EndSelector)

	seats := SeatTexts(doc)
	telemetry.Stage(e.Log, "DEBUG").Debugf("Raw seat counts: %q", seats)
	if len(seats) == 0 {
		telemetry.Stage(e.Log, "WARNING").Warn("No seat information found")
	}

	return models.ClassRecord{
		Course:      course,
		Title:       title,
		Number:      classNumber,
		Instructors: Instructors(doc),
		Days:        firstText(doc, DaysSelector),
		Time:        CombineTime(start, end),
		Location:    firstText(doc, LocationSelector),
		Dates:       firstText(doc, DatesSelector),
		Units:       firstText(doc, UnitsSelector),
		SeatStatus:  SeatStatus(seats),
		StartTime:   start,
		EndTime:     end,
	}, true
}

// Instructors lists instructor names in document order, preferring the
// linked name inside each cell. Repeated names are kept.
func Instructors(doc *goquery.Document) []string {
	instructors := []string{}
	doc.Find(InstructorSelector).Each(func(i int, s *goquery.Selection) {
		name := ""
		if link := s.Find(InstructorLink).First(); link.Length() > 0 {
			name = strings.TrimSpace(link.Text())
		} else {
			name = strings.TrimSpace(s.Text())
		}
		if name != "" {
			instructors = append(instructors, name)
		}
	})
	return instructors
}

// CombineTime joins start and end as "start - end" when both are known
func CombineTime(start, end string) string {
	if start == models.NotAvailable || end == models.NotAvailable {
		return models.NotAvailable
	}
	return start + " - " + end
}

// SeatTexts returns the trimmed seat count cells in document order
func SeatTexts(doc *goquery.Document) []string {
	var texts []string
	doc.Find(SeatsSelector).Each(func(i int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}

// SeatStatus is Open when the first parseable leading count above zero is
// found, Closed otherwise. Unparseable entries are skipped.
func SeatStatus(texts []string) models.SeatStatus {
	for _, text := range texts {
		if text == "" || text[0] < '0' || text[0] > '9' {
			continue
		}
		open, err := strconv.Atoi(strings.Fields(text)[0])
		if err != nil {
			continue
		}
		if open > 0 {
			return models.SeatsOpen
		}
	}
	return models.SeatsClosed
}

func firstText(doc *goquery.Document, selector string) string {
	return nthText(doc.Find(selector), 0)
}

func nthText(sel *goquery.Selection, i int) string {
	if sel.Length() <= i {
		return models.NotAvailable
	}
	return strings.TrimSpace(sel.Eq(i).Text())
}
