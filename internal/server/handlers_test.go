package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gridline/siteplan/internal/store"
	"github.com/gridline/siteplan/pkg/geo"
	"github.com/gridline/siteplan/pkg/plan"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st, err := store.Open(filepath.Join(t.TempDir(), "siteplan.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st)
}

func apiProject() plan.Project {
	return plan.Project{
		Plot: plan.Plot{
			Name:     "Reference Parcel",
			Location: "Delhi",
			UseType:  "Residential",
			Boundary: geo.Rect(geo.Pt(0, 0), geo.Pt(60, 40)),
			Setbacks: plan.Setbacks{Front: 5, Rear: 5, Side: 5},
		},
		Params: plan.GenerationParameters{
			Typologies:         []plan.Typology{plan.TypologySlab},
			TargetFAR:          2.0,
			FloorRange:         [2]int{1, 20},
			HeightRange:        [2]float64{0, 30},
			FloorToFloorHeight: 3.0,
			ProgramMix:         plan.ProgramMix{Residential: 100},
		},
		Regulations: []plan.Regulation{{
			Location: "Delhi",
			UseType:  "Residential",
			FAR:      &plan.RangeValue{Value: 2.0},
		}},
		CostParams: []plan.CostParameter{{
			Location:      "Delhi",
			BuildingType:  "Residential",
			Earthwork:     500,
			Structure:     12000,
			Finishing:     8000,
			Services:      4000,
			SellableRatio: 0.75,
			MarketRate:    60000,
		}},
		TimeParams: []plan.TimeParameter{{
			BuildingType:          "Residential",
			HeightCategory:        "mid_rise",
			StructureDaysPerFloor: 14,
			FinishingDaysPerFloor: 10,
			ExcavationMonths:      1,
			FoundationMonths:      2,
			ServicesOverlapFactor: 0.5,
			ContingencyMonths:     1,
		}},
	}
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
}

func TestGenerateScoreEstimateFlow(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/generate",
		gin.H{"project": apiProject(), "count": 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("generate = %d: %s", w.Code, w.Body.String())
	}
	var genResp struct {
		Variants []struct {
			Scenario struct {
				ID string `json:"id"`
			} `json:"scenario"`
		} `json:"variants"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &genResp); err != nil {
		t.Fatalf("decode generate response: %v", err)
	}
	if len(genResp.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(genResp.Variants))
	}
	id := genResp.Variants[0].Scenario.ID

	w = doJSON(t, s, http.MethodGet, "/api/v1/scenarios?plot=Reference+Parcel", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/scenarios/"+id+"/score", apiProject())
	if w.Code != http.StatusOK {
		t.Fatalf("score = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/scenarios/"+id+"/estimate", apiProject())
	if w.Code != http.StatusOK {
		t.Fatalf("estimate = %d: %s", w.Code, w.Body.String())
	}

	// the stored artifacts ride along with the scenario
	w = doJSON(t, s, http.MethodGet, "/api/v1/scenarios/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	var getResp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &getResp); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	for _, key := range []string{"scenario", "score", "estimate"} {
		if _, ok := getResp[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}

	w = doJSON(t, s, http.MethodDelete, "/api/v1/scenarios/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/scenarios/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", w.Code)
	}
}

func TestGenerateRejectsInvalidProject(t *testing.T) {
	s := testServer(t)
	project := apiProject()
	project.Params.TargetFAR = 0 // fails input validation
	w := doJSON(t, s, http.MethodPost, "/api/v1/generate", gin.H{"project": project})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("generate with bad project = %d, want 422", w.Code)
	}
}

func TestEstimatePotentialEndpoint(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/v1/estimate/potential", apiProject())
	if w.Code != http.StatusOK {
		t.Fatalf("potential = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Estimate struct {
			IsPotential bool `json:"is_potential"`
		} `json:"estimate"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Estimate.IsPotential {
		t.Error("potential estimate must be flagged")
	}
}

func TestScoreMissingScenario(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/v1/scenarios/nope/score", apiProject())
	if w.Code != http.StatusNotFound {
		t.Fatalf("score missing scenario = %d, want 404", w.Code)
	}
}
