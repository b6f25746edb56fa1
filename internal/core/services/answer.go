package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
	"github.com/medalpine/medrag/internal/core/ports/driving"
	"github.com/medalpine/medrag/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.QueryService = (*AnswerService)(nil)

// AnswerConfig holds the generation assembler tunables.
type AnswerConfig struct {
	// QueryTopK is the match count for free-text questions.
	QueryTopK int

	// CaseTopK is the match count for case analyses.
	CaseTopK int

	// TriggerKeyword enables the treatment-class augmentation when
	// present in the normalized query.
	TriggerKeyword string
}

// AnswerService assembles grounded prompts from retrieved evidence and
// runs the final generation.
type AnswerService struct {
	retrieval *RetrievalService
	generator driven.Generator
	cfg       AnswerConfig
}

// NewAnswerService creates an answer service.
func NewAnswerService(retrieval *RetrievalService, generator driven.Generator, cfg AnswerConfig) *AnswerService {
	if cfg.QueryTopK == 0 {
		cfg.QueryTopK = 10
	}
	if cfg.CaseTopK == 0 {
		cfg.CaseTopK = 8
	}
	if cfg.TriggerKeyword == "" {
		cfg.TriggerKeyword = "alzheimer"
	}
	return &AnswerService{
		retrieval: retrieval,
		generator: generator,
		cfg:       cfg,
	}
}

// Answer responds to a free-text question grounded in retrieved
// evidence.
func (s *AnswerService) Answer(ctx context.Context, query string) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	rc, err := s.retrieval.Retrieve(ctx, query, RetrieveOptions{
		TopK:        s.cfg.QueryTopK,
		WebFallback: true,
	})
	if err != nil {
		return nil, err
	}

	contextText := rc.Text
	if strings.Contains(strings.ToLower(rc.NormalizedQuery), s.cfg.TriggerKeyword) {
		contextText = joinContext(contextText, alzheimersAugmentation)
	}

	text, err := s.generator.Generate(ctx, answerPrompt(contextText, rc.NormalizedQuery), driven.GenerateOptions{
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("services: generate answer: %w", err)
	}

	logger.Debug("answered query", "sources", len(rc.Sources))
	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: rc.Sources,
	}, nil
}

// AnalyzeCase produces a structured assessment of a case study,
// restricted to the given specialties. There is no web fallback.
func (s *AnswerService) AnalyzeCase(ctx context.Context, cs domain.CaseStudy, specialties []string) (*domain.Answer, error) {
	description := cs.Description()
	if strings.TrimSpace(cs.PatientHistory+cs.CurrentSymptoms+cs.PatientPerspective+cs.DoctorOpinion) == "" {
		return nil, fmt.Errorf("services: %w: empty case study", domain.ErrInvalidInput)
	}

	rc, err := s.retrieval.Retrieve(ctx, description, RetrieveOptions{
		TopK:          s.cfg.CaseTopK,
		Specialties:   specialties,
		DedupeByPaper: true,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, casePrompt(cs, rc.Text), driven.GenerateOptions{
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("services: generate case analysis: %w", err)
	}

	logger.Debug("analyzed case", "specialties", specialties, "sources", len(rc.Sources))
	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: rc.Sources,
	}, nil
}

// joinContext appends an extra block to the context text.
func joinContext(contextText, extra string) string {
	if strings.TrimSpace(contextText) == "" {
		return extra
	}
	return contextText + contextSeparator + extra
}
