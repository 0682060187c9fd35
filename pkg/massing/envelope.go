package massing

import (
	"errors"

	"github.com/gridline/siteplan/pkg/geo"
	"github.com/gridline/siteplan/pkg/validation"
)

// Envelope is the legally buildable region of a plot.
type Envelope struct {
	Polygon geo.Polygon `json:"polygon"`
	Setback float64     `json:"setback"`

	// SetbackApplied is false when eroding by the setback consumed the
	// whole parcel and the envelope fell back to the original boundary.
	// The coverage score will reflect the missing setback.
	SetbackApplied bool `json:"setback_applied"`
}

// ResolveEnvelope shrinks the plot boundary by the setback distance. A parcel
// too small for its setback falls back to the full boundary rather than
// failing generation; the fallback is reported as a warning.
func ResolveEnvelope(boundary geo.Polygon, setback float64) (Envelope, *validation.Report) {
	report := validation.NewReport()

	if setback <= 0 {
		return Envelope{Polygon: boundary.EnsureCCW(), Setback: 0, SetbackApplied: true}, report
	}

	shrunk, err := geo.Buffer(boundary, -setback)
	if err != nil {
		if !errors.Is(err, geo.ErrEmpty) {
			report.Warnf(validation.LevelGeometry, "envelope",
				"setback erosion failed (%v); using plot boundary without setback", err)
		} else {
			report.Warnf(validation.LevelGeometry, "envelope",
				"parcel too small for %.1f m setback; using plot boundary without setback", setback)
		}
		return Envelope{Polygon: boundary.EnsureCCW(), Setback: setback, SetbackApplied: false}, report
	}

	return Envelope{Polygon: shrunk, Setback: setback, SetbackApplied: true}, report
}
