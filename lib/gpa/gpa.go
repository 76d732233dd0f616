package gpa

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"yorkgrades/lib/platforms/yorksis"
)

var ErrCreditParse = fmt.Errorf("could not parse course credit")

var ninePoint = map[string]float32{
	"A+": 9.0,
	"A":  8.0,
	"B+": 7.0,
	"B":  6.0,
	"C+": 5.0,
	"C":  4.0,
	"D+": 3.0,
	"D":  2.0,
	"E":  1.0,
	"F":  0.0,
}

var fourPoint = map[string]float32{
	"A+": 4.0,
	"A":  3.8,
	"B+": 3.3,
	"B":  3.0,
	"C+": 2.3,
	"C":  2.0,
	"D+": 1.3,
	"D":  1.0,
	"E":  0.7,
	"F":  0.0,
}

// GPA is a single precision, credit weighted average on both york scales. A
// transcript without any letter grades has NaN on both.
type GPA struct {
	Four float32
	Nine float32
}

type gpaJson struct {
	Four *float32 `json:"four"`
	Nine *float32 `json:"nine"`
}

func finite(f float32) *float32 {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return nil
	}
	return &f
}

func orNaN(f *float32) float32 {
	if f == nil {
		return float32(math.NaN())
	}
	return *f
}

// non-finite values are written as null
func (g GPA) MarshalJSON() ([]byte, error) {
	return json.Marshal(gpaJson{
		Four: finite(g.Four),
		Nine: finite(g.Nine),
	})
}

func (g *GPA) UnmarshalJSON(data []byte) error {
	var out gpaJson
	err := json.Unmarshal(data, &out)
	if err != nil {
		return err
	}
	g.Four = orNaN(out.Four)
	g.Nine = orNaN(out.Nine)
	return nil
}

// Credit reads the credit weight, the 4th token of a course code like
// "LE EECS 1001 3.00".
func Credit(course string) (float32, error) {
	parts := strings.Fields(course)
	if len(parts) < 4 {
		return 0, fmt.Errorf("%w: '%s' has no credit token", ErrCreditParse, course)
	}
	credit, err := strconv.ParseFloat(parts[3], 32)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s': %w", ErrCreditParse, course, err)
	}
	return float32(credit), nil
}

// Compute averages the recognized letter grades weighted by credit, any other
// grade (IP, DEF, W, ...) is left out entirely.
func Compute(grades []yorksis.CourseData) (GPA, error) {
	var four, nine, credits float32
	for _, g := range grades {
		n, ok := ninePoint[g.Grade]
		if !ok {
			continue
		}
		credit, err := Credit(g.Course)
		if err != nil {
			return GPA{}, err
		}
		// the conversions round each product, no fused multiply-add
		nine += float32(n * credit)
		four += float32(fourPoint[g.Grade] * credit)
		credits += credit
	}
	return GPA{
		Four: four / credits,
		Nine: nine / credits,
	}, nil
}
