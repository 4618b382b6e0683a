package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/assignment-engine/internal/models"
	"github.com/SAP-F-2025/assignment-engine/internal/practice"
	"github.com/SAP-F-2025/assignment-engine/internal/repositories"
	"github.com/SAP-F-2025/assignment-engine/internal/shuffle"
	"github.com/SAP-F-2025/assignment-engine/internal/validator"
)

// PracticeService serves ungraded study material. It shares assignment
// loading (and therefore the unknown-type hard failure) with the attempt
// flow, but never touches submissions or timers.
type PracticeService interface {
	Flashcards(ctx context.Context, assignmentID string) ([]models.Flashcard, error)
	Quiz(ctx context.Context, assignmentID, sessionID string) ([]models.QuizItem, error)
	Exercises(ctx context.Context, assignmentID, sessionID string) ([]models.Exercise, error)
}

type practiceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewPracticeService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) PracticeService {
	return &practiceService{repo: repo, logger: logger, validator: v}
}

func (s *practiceService) Flashcards(ctx context.Context, assignmentID string) ([]models.Flashcard, error) {
	_, questions, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return practice.Flashcards(questions), nil
}

func (s *practiceService) Quiz(ctx context.Context, assignmentID, sessionID string) ([]models.QuizItem, error) {
	assignment, questions, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	seed := shuffle.SeedFor(assignment.ID+":"+sessionID, 0, "quiz")
	return practice.Quiz(questions, seed), nil
}

func (s *practiceService) Exercises(ctx context.Context, assignmentID, sessionID string) ([]models.Exercise, error) {
	assignment, questions, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return practice.Exercises(assignment.ID+":"+sessionID, questions), nil
}

func (s *practiceService) loadAssignment(ctx context.Context, id string) (*models.Assignment, []models.Question, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrAssignmentNotFound
		}
		return nil, nil, err
	}
	questions, err := assignment.DecodeQuestions()
	if err != nil {
		return nil, nil, err
	}
	if err := s.validator.Question().ValidateAssignment(questions); err != nil {
		return nil, nil, err
	}
	return assignment, questions, nil
}
