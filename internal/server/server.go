// Package server exposes scenario generation, scoring and estimation over
// HTTP for the planning frontend.
package server

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gridline/siteplan/internal/store"
)

// Server wires the HTTP routes to the scenario store.
type Server struct {
	store  *store.Store
	router *gin.Engine
}

// New builds the router. The caller owns the store's lifecycle.
func New(st *store.Store) *Server {
	s := &Server{store: st}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.health)

	api := r.Group("/api/v1")
	{
		api.POST("/validate", s.validateProject)
		api.POST("/generate", s.generate)
		api.POST("/estimate/potential", s.estimatePotential)

		api.GET("/scenarios", s.listScenarios)
		api.GET("/scenarios/:id", s.getScenario)
		api.DELETE("/scenarios/:id", s.deleteScenario)
		api.POST("/scenarios/:id/score", s.scoreScenario)
		api.POST("/scenarios/:id/estimate", s.estimateScenario)
	}

	s.router = r
	return s
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	log.Printf("siteplan API listening on %s", addr)
	return s.router.Run(addr)
}
