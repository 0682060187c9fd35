package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridline/siteplan/internal/store"
	"github.com/gridline/siteplan/pkg/estimate"
	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/scenario"
	"github.com/gridline/siteplan/pkg/score"
	"github.com/gridline/siteplan/pkg/validation"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now()})
}

// bindProject decodes the project document every planning endpoint carries.
func bindProject(c *gin.Context) (*plan.Project, bool) {
	var project plan.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project document: " + err.Error()})
		return nil, false
	}
	return &project, true
}

func (s *Server) validateProject(c *gin.Context) {
	project, ok := bindProject(c)
	if !ok {
		return
	}
	report := validation.ValidateInputs(project)
	c.JSON(http.StatusOK, report)
}

// generateRequest wraps a project with generation options.
type generateRequest struct {
	Project plan.Project `json:"project"`
	Count   int          `json:"count"`
}

func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid generate request: " + err.Error()})
		return
	}
	if report := validation.ValidateInputs(&req.Project); !report.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "project failed validation", "report": report})
		return
	}

	variants := scenario.GenerateVariants(&req.Project, req.Count)
	for _, v := range variants {
		if err := s.store.SaveScenario(c.Request.Context(), v.Scenario); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"variants": variants})
}

func (s *Server) listScenarios(c *gin.Context) {
	rows, err := s.store.ListScenarios(c.Request.Context(), c.Query("plot"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": rows})
}

func (s *Server) getScenario(c *gin.Context) {
	scn, err := s.store.GetScenario(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	resp := gin.H{"scenario": scn}
	if result, err := s.store.GetScore(c.Request.Context(), scn.ID); err == nil {
		resp["score"] = result
	}
	if pe, err := s.store.GetEstimate(c.Request.Context(), scn.ID); err == nil {
		resp["estimate"] = pe
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) deleteScenario(c *gin.Context) {
	if err := s.store.DeleteScenario(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) scoreScenario(c *gin.Context) {
	project, ok := bindProject(c)
	if !ok {
		return
	}
	scn, err := s.store.GetScenario(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	result, report := score.Evaluate(project, scn)
	if err := s.store.SaveScore(c.Request.Context(), result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "report": report})
}

func (s *Server) estimateScenario(c *gin.Context) {
	project, ok := bindProject(c)
	if !ok {
		return
	}
	scn, err := s.store.GetScenario(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	pe, report, err := estimate.Estimate(project, scn)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "report": report})
		return
	}
	if err := s.store.SaveEstimate(c.Request.Context(), scn.ID, pe); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimate": pe, "report": report})
}

func (s *Server) estimatePotential(c *gin.Context) {
	project, ok := bindProject(c)
	if !ok {
		return
	}
	pe, report, err := estimate.EstimatePotential(project)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "report": report})
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimate": pe, "report": report})
}

func respondStoreErr(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "scenario not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
