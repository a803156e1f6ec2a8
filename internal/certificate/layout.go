package certificate

import (
	"fmt"
	"time"
)

// Page size of a landscape A4 sheet in points. All layout coordinates
// below are measured from the bottom-left corner, matching the
// original certificate templates; rendering converts to the PDF
// library's top-left origin.
const (
	pageWidth  = 841.89
	pageHeight = 595.28
)

type point struct {
	X, Y float64
}

// layout places the overlay fields of one certificate template. Each
// course code ships its own template artwork, so the positions differ
// per course.
type layout struct {
	// NameY is the baseline of the student name, centered horizontally.
	NameY    float64
	Score    point
	Date     point
	Username point
	Code     point
}

var defaultLayout = layout{
	NameY:    430,
	Score:    point{479, 198},
	Date:     point{585, 220},
	Username: point{485, 273},
	Code:     point{679, 466},
}

// layouts maps course codes to their certificate field positions.
var layouts = map[string]layout{
	"0001": {NameY: 305, Score: point{728, 188}, Date: point{140, 188}, Username: point{525, 263}, Code: point{679, 466}},
	"0002": {NameY: 305, Score: point{138, 167}, Date: point{230, 188}, Username: point{525, 263}, Code: point{679, 466}},
	"0003": {NameY: 305, Score: point{738, 188}, Date: point{110, 188}, Username: point{525, 263}, Code: point{679, 466}},
	"0004": {NameY: 305, Score: point{329, 188}, Date: point{397, 210}, Username: point{525, 263}, Code: point{679, 466}},
	"0005": {NameY: 305, Score: point{702, 190}, Date: point{111, 190}, Username: point{525, 263}, Code: point{679, 466}},
	"0006": {NameY: 305, Score: point{463, 184}, Date: point{561, 206}, Username: point{525, 263}, Code: point{679, 466}},
	"0007": {NameY: 305, Score: point{331, 183}, Date: point{380, 205}, Username: point{525, 263}, Code: point{679, 466}},
	"0008": {NameY: 305, Score: point{329, 183}, Date: point{461, 205}, Username: point{525, 263}, Code: point{679, 466}},
	"0009": {NameY: 305, Score: point{465, 184.5}, Date: point{565, 206}, Username: point{525, 263}, Code: point{679, 466}},
}

func layoutFor(courseCode string) layout {
	if l, ok := layouts[courseCode]; ok {
		return l
	}
	return defaultLayout
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// SpanishLongDate formats a date the way it is printed on
// certificates: "02 de enero del 2025".
func SpanishLongDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s del %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
