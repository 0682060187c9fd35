package massing

import (
	"math"
	"testing"

	"github.com/gridline/siteplan/pkg/geo"
	"github.com/gridline/siteplan/pkg/plan"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func plot60x40() geo.Polygon {
	return geo.Rect(geo.Pt(0, 0), geo.Pt(60, 40))
}

// --- Envelope tests ---

func TestResolveEnvelope(t *testing.T) {
	env, report := ResolveEnvelope(plot60x40(), 5)
	if !env.SetbackApplied {
		t.Error("expected setback to be applied")
	}
	if len(report.Warnings) != 0 {
		t.Errorf("expected no warnings, got %d", len(report.Warnings))
	}
	// 60x40 eroded by 5 -> 50x30 = 1500 m².
	if !approxEqual(env.Polygon.Area(), 1500, 0.01) {
		t.Errorf("expected envelope area 1500, got %f", env.Polygon.Area())
	}
}

func TestResolveEnvelopeAreaNeverGrows(t *testing.T) {
	boundary := geo.NewPolygon(geo.Pt(0, 0), geo.Pt(50, 5), geo.Pt(60, 45), geo.Pt(5, 40))
	for _, s := range []float64{0, 1, 3, 8} {
		env, _ := ResolveEnvelope(boundary, s)
		if env.Polygon.Area() > boundary.Area()+0.01 {
			t.Errorf("setback %f: envelope area %f exceeds plot area %f", s, env.Polygon.Area(), boundary.Area())
		}
	}
}

func TestResolveEnvelopeFallback(t *testing.T) {
	small := geo.Rect(geo.Pt(0, 0), geo.Pt(8, 8))
	env, report := ResolveEnvelope(small, 5)
	if env.SetbackApplied {
		t.Error("expected fallback for oversized setback")
	}
	if !approxEqual(env.Polygon.Area(), 64, 0.01) {
		t.Errorf("fallback envelope should equal the plot, got area %f", env.Polygon.Area())
	}
	if len(report.Warnings) == 0 {
		t.Error("envelope fallback must be observable as a warning")
	}
}

// --- Orientation tests ---

func TestQuadrantFromDegrees(t *testing.T) {
	cases := []struct {
		angle float64
		want  Quadrant
	}{
		{0, QuadrantNE},
		{44.9, QuadrantNE},
		{-30, QuadrantNE},
		{350, QuadrantNE},
		{90, QuadrantNW},
		{180, QuadrantSW},
		{270, QuadrantSE},
		{-90, QuadrantSE},
		{450, QuadrantNW},
	}
	for _, c := range cases {
		if got := QuadrantFromDegrees(c.angle); got != c.want {
			t.Errorf("angle %.1f: expected %s, got %s", c.angle, c.want, got)
		}
	}
}

// --- Ring tests ---

func TestPerimeterRing(t *testing.T) {
	env := geo.Rect(geo.Pt(0, 0), geo.Pt(50, 30))
	ring, solid := PerimeterRing(env, 5)
	if solid {
		t.Fatal("expected hollow ring for a 50x30 envelope")
	}
	// 1500 - 40*20 core = 700.
	if !approxEqual(ring.Area(), 700, 1.0) {
		t.Errorf("expected ring area ~700, got %f", ring.Area())
	}
}

func TestPerimeterRingSolidFallback(t *testing.T) {
	env := geo.Rect(geo.Pt(0, 0), geo.Pt(20, 9))
	ring, solid := PerimeterRing(env, 5)
	if !solid {
		t.Fatal("expected solid-block fallback for a parcel thinner than twice the depth")
	}
	if !approxEqual(ring.Area(), env.Area(), 0.01) {
		t.Errorf("fallback ring must equal the full envelope: got %f, want %f", ring.Area(), env.Area())
	}
}

// --- Typology tests ---

func slabParams() plan.GenerationParameters {
	return plan.GenerationParameters{
		Typologies:         []plan.Typology{plan.TypologySlab},
		TargetFAR:          2.0,
		FloorRange:         [2]int{5, 12},
		FloorToFloorHeight: 3.5,
		BuildingCount:      2,
		BuildingGap:        6,
	}
}

func TestSynthesizeSlabBands(t *testing.T) {
	env, _ := ResolveEnvelope(plot60x40(), 5)
	fps, report := Synthesize(env, plan.TypologySlab, slabParams())
	if len(fps) != 2 {
		t.Fatalf("expected 2 slab chunks, got %d", len(fps))
	}
	if !report.Valid {
		t.Errorf("synthesis must not error: %s", report.Summary)
	}
	for i, fp := range fps {
		if fp.Area() <= 0 {
			t.Errorf("chunk %d has no area", i)
		}
		// Each eroded band must fit inside its 25x30 half.
		if fp.Area() > 25*30 {
			t.Errorf("chunk %d area %f exceeds band area", i, fp.Area())
		}
	}
	// Eroding by gap/2 on each side leaves (25-6)x(30-6) = 456 per chunk.
	total := fps[0].Area() + fps[1].Area()
	if !approxEqual(total, 2*19*24, 5.0) {
		t.Errorf("expected total chunk area ~%d, got %f", 2*19*24, total)
	}
}

func TestSynthesizeSlabThinChunkKept(t *testing.T) {
	// A 10m wide strip cannot absorb a 6m gap erosion; chunks must be kept
	// un-eroded instead of dropped.
	env, _ := ResolveEnvelope(geo.Rect(geo.Pt(0, 0), geo.Pt(40, 5)), 0)
	fps, report := Synthesize(env, plan.TypologySlab, slabParams())
	if len(fps) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(fps))
	}
	if len(report.Warnings) == 0 {
		t.Error("keeping un-eroded chunks must be reported")
	}
	total := fps[0].Area() + fps[1].Area()
	if !approxEqual(total, 200, 2.0) {
		t.Errorf("expected full strip retained (~200 m²), got %f", total)
	}
}

func TestSynthesizeBandCountFromFootprintCeiling(t *testing.T) {
	// With no explicit building count the per-building footprint ceiling
	// decides how many bands the 1500 m² envelope is cut into.
	env, _ := ResolveEnvelope(plot60x40(), 5)
	p := slabParams()
	p.BuildingCount = 0
	p.FootprintAreaRange = [2]float64{0, 400}
	fps, _ := Synthesize(env, plan.TypologySlab, p)
	if len(fps) != 4 {
		t.Fatalf("expected ceil(1500/400) = 4 bands, got %d", len(fps))
	}

	// A coverage ceiling shrinks the buildable area before chunking.
	p.CoverageRatioRange = [2]float64{0, 0.4}
	fps, _ = Synthesize(env, plan.TypologySlab, p)
	if len(fps) != 2 {
		t.Fatalf("expected ceil(1500*0.4/400) = 2 bands, got %d", len(fps))
	}
}

func TestChunkCount(t *testing.T) {
	cases := []struct {
		area, ceiling float64
		want          int
	}{
		{1500, 400, 4},
		{400, 400, 1},
		{300, 400, 1},
		{1500, 0, 1},
		{801, 400, 3},
	}
	for _, c := range cases {
		if got := ChunkCount(c.area, c.ceiling); got != c.want {
			t.Errorf("ChunkCount(%f, %f) = %d, want %d", c.area, c.ceiling, got, c.want)
		}
	}
}

func TestSynthesizePerimeter(t *testing.T) {
	env, _ := ResolveEnvelope(plot60x40(), 5)
	p := slabParams()
	p.BuildingDepth = 8
	fps, _ := Synthesize(env, plan.TypologyPerimeter, p)
	if len(fps) != 1 {
		t.Fatalf("expected 1 ring footprint, got %d", len(fps))
	}
	// 50x30 minus 34x14 core.
	want := 1500.0 - 34*14
	if !approxEqual(fps[0].Area(), want, 2.0) {
		t.Errorf("expected ring area ~%f, got %f", want, fps[0].Area())
	}
}

func TestSynthesizeLFootprint(t *testing.T) {
	env, _ := ResolveEnvelope(plot60x40(), 5)
	p := slabParams()
	p.BuildingDepth = 8
	p.OrientationDeg = 0 // NE bucket: north + east legs
	fps, _ := Synthesize(env, plan.TypologyL, p)
	if len(fps) != 1 {
		t.Fatalf("expected 1 footprint, got %d", len(fps))
	}
	ringArea := 1500.0 - 34*14
	a := fps[0].Area()
	if a <= 0 || a >= ringArea {
		t.Errorf("L footprint area %f must be a proper subset of the ring (%f)", a, ringArea)
	}
}

func TestSynthesizeUFootprintLargerThanL(t *testing.T) {
	env, _ := ResolveEnvelope(plot60x40(), 5)
	p := slabParams()
	p.BuildingDepth = 8
	lFps, _ := Synthesize(env, plan.TypologyL, p)
	uFps, _ := Synthesize(env, plan.TypologyU, p)
	if uFps[0].Area() <= lFps[0].Area() {
		t.Errorf("U (three legs, %f) should exceed L (two legs, %f)", uFps[0].Area(), lFps[0].Area())
	}
}

func TestSynthesizeTFootprint(t *testing.T) {
	env, _ := ResolveEnvelope(plot60x40(), 5)
	p := slabParams()
	p.BuildingDepth = 8
	fps, _ := Synthesize(env, plan.TypologyT, p)
	a := fps[0].Area()
	if a <= 0 {
		t.Fatal("T footprint must have area")
	}
	ringArea := 1500.0 - 34*14
	if a >= ringArea {
		t.Errorf("T footprint %f must be smaller than the ring %f", a, ringArea)
	}
}

func TestSynthesizeSmallParcelNeverEmpty(t *testing.T) {
	// Degenerate parcels must still produce something plannable for every
	// typology.
	small := geo.Rect(geo.Pt(0, 0), geo.Pt(9, 7))
	env, _ := ResolveEnvelope(small, 5)
	for _, typ := range []plan.Typology{
		plan.TypologyPoint, plan.TypologySlab, plan.TypologyPerimeter,
		plan.TypologyL, plan.TypologyU, plan.TypologyT, plan.TypologyH,
	} {
		fps, _ := Synthesize(env, typ, slabParams())
		total := 0.0
		for _, fp := range fps {
			total += fp.Area()
		}
		if total <= 0 {
			t.Errorf("typology %s produced an empty footprint on a small parcel", typ)
		}
	}
}
