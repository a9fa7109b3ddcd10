// Package server exposes the analysis engine as an asynchronous HTTP job
// API: submit a circuit, get a job id back immediately, poll status and
// result. Jobs live in memory only.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/M4rulli/Dynamica/internal/jobs"
	"github.com/M4rulli/Dynamica/pkg/analysis"
	"github.com/M4rulli/Dynamica/pkg/graph"
)

// Server wires the HTTP routes onto a job store.
type Server struct {
	store *jobs.Store
	log   *slog.Logger
}

// New builds the gin engine with all routes registered.
func New(store *jobs.Store, log *slog.Logger) *gin.Engine {
	s := &Server{store: store, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), cors())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1/analysis")
	api.POST("/jobs", s.createJob)
	api.GET("/jobs/:id", s.jobStatus)
	api.GET("/jobs/:id/result", s.jobResult)
	return r
}

// cors mirrors the permissive policy of the editor frontend deployment.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) createJob(c *gin.Context) {
	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !req.Kind.Known() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": fmt.Sprintf("unknown analysis_type %q", req.Kind)})
		return
	}
	if err := graph.ValidateIntegrity(req.Circuit.Components); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	id := uuid.NewString()
	s.store.Create(id, req)
	s.log.Debug("job created",
		"job_id", id,
		"analysis_type", string(req.Kind),
		"components", len(req.Circuit.Components))
	go s.process(id)

	c.JSON(http.StatusOK, gin.H{"job_id": id, "status": jobs.StatusQueued})
}

// process runs a queued job to completion or failure. There is no retry;
// a failed job can only be resubmitted with corrected input.
func (s *Server) process(id string) {
	job, ok := s.store.Get(id)
	if !ok {
		return
	}
	s.store.SetRunning(id)
	res, err := analysis.Run(job.Request)
	if err != nil {
		s.log.Warn("job failed", "job_id", id, "error", err)
		s.store.SetFailed(id, err.Error())
		return
	}
	s.log.Debug("job completed", "job_id", id, "loops", res.Diagnostics.FundamentalLoops)
	s.store.SetCompleted(id, res)
}

func (s *Server) jobStatus(c *gin.Context) {
	job, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "job not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": job.ID, "status": job.Status, "error": orNil(job.Error)})
}

func (s *Server) jobResult(c *gin.Context) {
	job, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "job not found"})
		return
	}
	resp := gin.H{"status": job.Status, "error": orNil(job.Error)}
	if job.Result != nil {
		resp["result"] = resultPayload(job.ID, job.Request.Kind, job.Result)
	} else {
		resp["result"] = nil
	}
	c.JSON(http.StatusOK, resp)
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
