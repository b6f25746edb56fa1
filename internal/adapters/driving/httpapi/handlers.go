package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/logger"
)

// Request defaults.
const (
	defaultIndexTarget    = 30
	defaultNewsfeedMonths = 6
)

type ragQueryRequest struct {
	Query string `json:"query"`
}

type ragQueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type analyzeCaseRequest struct {
	PatientHistory     string   `json:"patient_history"`
	CurrentSymptoms    string   `json:"current_symptoms"`
	PatientPerspective string   `json:"patient_perspective"`
	DoctorOpinion      string   `json:"doctor_opinion"`
	Specialties        []string `json:"specialties"`
}

type analyzeCaseResponse struct {
	Analysis string   `json:"analysis"`
	Sources  []string `json:"sources"`
}

type indexPapersRequest struct {
	Niche     string `json:"niche"`
	NumPapers int    `json:"num_papers"`
}

type newsfeedRequest struct {
	Niche  string `json:"niche"`
	Months int    `json:"months"`
}

type newsfeedResponse struct {
	Papers []domain.PaperSummary `json:"papers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRagQuery(c *gin.Context) {
	var req ragQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	answer, err := s.queries.Answer(c.Request.Context(), req.Query)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ragQueryResponse{
		Answer:  answer.Text,
		Sources: answer.Sources,
	})
}

func (s *Server) handleAnalyzeCase(c *gin.Context) {
	var req analyzeCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Specialties) == 0 {
		req.Specialties = []string{domain.GeneralSpecialty}
	}

	cs := domain.CaseStudy{
		PatientHistory:     req.PatientHistory,
		CurrentSymptoms:    req.CurrentSymptoms,
		PatientPerspective: req.PatientPerspective,
		DoctorOpinion:      req.DoctorOpinion,
	}

	answer, err := s.queries.AnalyzeCase(c.Request.Context(), cs, req.Specialties)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, analyzeCaseResponse{
		Analysis: answer.Text,
		Sources:  answer.Sources,
	})
}

func (s *Server) handleIndexPapers(c *gin.Context) {
	var req indexPapersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Niche == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "niche is required"})
		return
	}
	if req.NumPapers <= 0 {
		req.NumPapers = defaultIndexTarget
	}

	count, err := s.indexer.IndexPapers(c.Request.Context(), req.Niche, req.NumPapers)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Indexed %d papers for %s", count, req.Niche),
	})
}

func (s *Server) handleNewsfeed(c *gin.Context) {
	var req newsfeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Niche == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "niche is required"})
		return
	}
	if req.Months <= 0 {
		req.Months = defaultNewsfeedMonths
	}

	papers, err := s.feed.Papers(c.Request.Context(), req.Niche, req.Months)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if papers == nil {
		papers = []domain.PaperSummary{}
	}

	c.JSON(http.StatusOK, newsfeedResponse{Papers: papers})
}

// writeError maps domain errors to status codes: validation failures
// are client errors, everything else is a wrapped 500 with the message
// preserved.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "request_id", c.GetString("request_id"), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
