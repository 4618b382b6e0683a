package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/assignment-engine/internal/cache"
	apperrors "github.com/SAP-F-2025/assignment-engine/internal/errors"
	"github.com/SAP-F-2025/assignment-engine/internal/events"
	"github.com/SAP-F-2025/assignment-engine/internal/grading"
	"github.com/SAP-F-2025/assignment-engine/internal/models"
	"github.com/SAP-F-2025/assignment-engine/internal/repositories"
	"github.com/SAP-F-2025/assignment-engine/internal/shuffle"
	"github.com/SAP-F-2025/assignment-engine/internal/timer"
	"github.com/SAP-F-2025/assignment-engine/internal/validator"
)

// AttemptService orchestrates the take flow: it gates answer entry behind
// the timer, enforces the single-submission invariant, triggers auto-submit
// on expiry and rebuilds the review view through the same evaluators that
// produced the stored grade.
type AttemptService interface {
	Start(ctx context.Context, assignmentID string, student models.StudentIdentity) (*AttemptResponse, error)
	SaveAnswer(ctx context.Context, assignmentID string, student models.StudentIdentity, index int, answer json.RawMessage) error
	TimeRemaining(ctx context.Context, assignmentID string, student models.StudentIdentity) (*TimeRemainingResponse, error)
	Submit(ctx context.Context, assignmentID string, student models.StudentIdentity, answers models.AnswerSet) (*SubmissionResponse, error)
	Review(ctx context.Context, assignmentID, studentID string) (*SubmissionResponse, error)
}

// QuestionView is the learner-facing shape of a question: scrambled
// presentation material included, answer keys stripped.
type QuestionView struct {
	Index  int                 `json:"index"` // original question index; answers stay keyed by it
	ID     string              `json:"id"`
	Type   models.QuestionType `json:"type"`
	Text   string              `json:"text"`
	Points int                 `json:"points"`

	Options    []string `json:"options,omitempty"`
	Items      []string `json:"items,omitempty"`
	Lefts      []string `json:"lefts,omitempty"`
	Rights     []string `json:"rights,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Pool       []string `json:"pool,omitempty"`
	Letters    []string `json:"letters,omitempty"`
	Words      []string `json:"words,omitempty"`
}

type AttemptResponse struct {
	AssignmentID     string              `json:"assignment_id"`
	Title            string              `json:"title"`
	Description      *string             `json:"description,omitempty"`
	DueDate          *time.Time          `json:"due_date,omitempty"`
	TotalPoints      int                 `json:"total_points"`
	TimeLimit        int                 `json:"time_limit"`
	Questions        []QuestionView      `json:"questions"`
	SavedAnswers     models.AnswerSet    `json:"saved_answers,omitempty"`
	TimerState       timer.State         `json:"timer_state"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	Submitted        bool                `json:"submitted"`
	Review           *SubmissionResponse `json:"review,omitempty"`
}

type TimeRemainingResponse struct {
	TimerState       timer.State `json:"timer_state"`
	RemainingSeconds int         `json:"remaining_seconds"`
}

type SubmissionResponse struct {
	Submission *models.Submission       `json:"submission"`
	Results    []grading.QuestionResult `json:"results"`
}

type attemptService struct {
	repo      repositories.Repository
	deadlines timer.DeadlineStore
	drafts    cache.DraftStore
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	clock     timer.Clock

	mu        sync.Mutex
	inFlight  map[string]bool
	timers    map[string]*timerEntry
	lastSweep time.Time
}

// timerEntry tracks when a controller was last used so idle ones can be
// evicted. Evicted state is rebuilt from the deadline store on the next
// access, so eviction never loses a countdown.
type timerEntry struct {
	ctrl    *timer.Controller
	touched time.Time
}

const (
	controllerIdleTTL    = 24 * time.Hour
	controllerSweepEvery = time.Hour
)

func NewAttemptService(
	repo repositories.Repository,
	deadlines timer.DeadlineStore,
	drafts cache.DraftStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
	clock timer.Clock,
) AttemptService {
	if clock == nil {
		clock = timer.SystemClock()
	}
	return &attemptService{
		repo:      repo,
		deadlines: deadlines,
		drafts:    drafts,
		publisher: publisher,
		logger:    logger,
		validator: v,
		clock:     clock,
		inFlight:  make(map[string]bool),
		timers:    make(map[string]*timerEntry),
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

func (s *attemptService) Start(ctx context.Context, assignmentID string, student models.StudentIdentity) (*AttemptResponse, error) {
	s.logger.Info("Starting assignment attempt",
		"assignment_id", assignmentID,
		"student_id", student.ID)

	assignment, questions, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	// Once a submission exists the learner only ever sees the read-only
	// review view.
	if review, err := s.reviewIfSubmitted(ctx, assignment, questions, student.ID); err != nil {
		return nil, err
	} else if review != nil {
		return s.submittedResponse(assignment, review), nil
	}

	ctrl := s.controllerFor(ctx, assignment, questions, student)
	ctrl.Restore(ctx)

	// Restore of a past deadline fires the auto-submit, which leaves the
	// controller Expired (submission write failed) or Finalized (it
	// succeeded). Either way the take view is over.
	if state := ctrl.State(); state == timer.StateExpired || state == timer.StateFinalized {
		s.retryAutoSubmit(ctx, assignment, questions, student, ctrl)
		review, err := s.reviewIfSubmitted(ctx, assignment, questions, student.ID)
		if err != nil {
			return nil, err
		}
		if review != nil {
			return s.submittedResponse(assignment, review), nil
		}
		return nil, ErrAttemptTimeExpired
	}

	resumed := ctrl.State() == timer.StateRunning
	ctrl.Start(ctx)

	saved, err := s.drafts.Answers(ctx, assignment.ID, student.ID)
	if err != nil {
		s.logger.Warn("Failed to load draft answers", "assignment_id", assignment.ID, "error", err)
		saved = models.AnswerSet{}
	}

	s.publish(ctx, events.NewAttemptEvent(events.EventAttemptStarted, events.AttemptStartedEvent{
		AssignmentID: assignment.ID,
		ClassID:      assignment.ClassID,
		StudentID:    student.ID,
		StartedAt:    s.clock.Now(),
		TimeLimit:    assignment.TimeLimit,
		Resumed:      resumed,
	}))

	response := &AttemptResponse{
		AssignmentID:     assignment.ID,
		Title:            assignment.Title,
		Description:      assignment.Description,
		DueDate:          assignment.DueDate,
		TotalPoints:      assignment.TotalPoints,
		TimeLimit:        assignment.TimeLimit,
		Questions:        s.buildQuestionViews(assignment, questions, student),
		SavedAnswers:     saved,
		TimerState:       ctrl.State(),
		RemainingSeconds: int(ctrl.Remaining(ctx).Seconds()),
	}
	return response, nil
}

func (s *attemptService) SaveAnswer(ctx context.Context, assignmentID string, student models.StudentIdentity, index int, answer json.RawMessage) error {
	assignment, questions, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(questions) {
		return apperrors.ValidationErrors{*apperrors.NewValidationError(
			"index", "question index out of range", index)}
	}

	if _, err := s.repo.Submission().GetByAssignmentAndStudent(ctx, assignment.ID, student.ID); err == nil {
		return ErrAlreadySubmitted
	} else if !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to check existing submission: %w", err)
	}

	ctrl := s.controllerFor(ctx, assignment, questions, student)
	ctrl.Restore(ctx)
	// Answering any question counts as the first interaction and starts
	// the countdown.
	ctrl.Start(ctx)

	if assignment.Timed() && ctrl.Remaining(ctx) <= 0 {
		s.retryAutoSubmit(ctx, assignment, questions, student, ctrl)
		return ErrAttemptTimeExpired
	}

	if err := s.drafts.SaveAnswer(ctx, assignment.ID, student.ID, index, answer); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

func (s *attemptService) TimeRemaining(ctx context.Context, assignmentID string, student models.StudentIdentity) (*TimeRemainingResponse, error) {
	assignment, questions, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	ctrl := s.controllerFor(ctx, assignment, questions, student)
	ctrl.Restore(ctx)

	remaining := ctrl.Remaining(ctx)
	s.retryAutoSubmit(ctx, assignment, questions, student, ctrl)

	return &TimeRemainingResponse{
		TimerState:       ctrl.State(),
		RemainingSeconds: int(remaining.Seconds()),
	}, nil
}

func (s *attemptService) Submit(ctx context.Context, assignmentID string, student models.StudentIdentity, answers models.AnswerSet) (*SubmissionResponse, error) {
	s.logger.Info("Submitting assignment attempt",
		"assignment_id", assignmentID,
		"student_id", student.ID,
		"answers_count", len(answers))

	assignment, questions, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	ctrl := s.controllerFor(ctx, assignment, questions, student)
	ctrl.Restore(ctx)

	if assignment.Timed() && ctrl.Remaining(ctx) <= 0 {
		// Expiry owns the attempt; make sure its auto-submit actually
		// landed before refusing the manual submit.
		s.retryAutoSubmit(ctx, assignment, questions, student, ctrl)
		return nil, ErrAttemptTimeExpired
	}

	if !s.acquireLatch(assignment.ID, student.ID) {
		return nil, ErrSubmissionInFlight
	}
	defer s.releaseLatch(assignment.ID, student.ID)

	if _, err := s.repo.Submission().GetByAssignmentAndStudent(ctx, assignment.ID, student.ID); err == nil {
		return nil, ErrAlreadySubmitted
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}

	merged, err := s.mergeWithDrafts(ctx, assignment, student, answers)
	if err != nil {
		return nil, err
	}

	return s.finalize(ctx, assignment, questions, student, merged, false, ctrl)
}

func (s *attemptService) Review(ctx context.Context, assignmentID, studentID string) (*SubmissionResponse, error) {
	assignment, questions, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	submission, err := s.repo.Submission().GetByAssignmentAndStudent(ctx, assignment.ID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	results, _, err := grading.Review(questions, submission)
	if err != nil {
		return nil, err
	}

	return &SubmissionResponse{Submission: submission, Results: results}, nil
}

// ===== AUTO-SUBMIT =====

// retryAutoSubmit re-runs the expiry submission when a controller is stuck
// Expired because an earlier auto-submit failed transiently, such as a
// submission write outage at the moment the deadline passed. autoSubmit is
// idempotent behind the latch and the existing-submission check, so calling
// it again is safe; without the retry the drafted answers would stay
// unsubmittable until a process restart.
func (s *attemptService) retryAutoSubmit(ctx context.Context, assignment *models.Assignment, questions []models.Question, student models.StudentIdentity, ctrl *timer.Controller) {
	if ctrl.State() != timer.StateExpired {
		return
	}
	s.autoSubmit(ctx, assignment, questions, student, ctrl)
}

// autoSubmit fires from the timer controller when the deadline passes. It
// bypasses the completeness check and grades whatever draft answers exist.
func (s *attemptService) autoSubmit(ctx context.Context, assignment *models.Assignment, questions []models.Question, student models.StudentIdentity, ctrl *timer.Controller) {
	s.logger.Info("Auto-submitting expired attempt",
		"assignment_id", assignment.ID,
		"student_id", student.ID)

	if !s.acquireLatch(assignment.ID, student.ID) {
		// A manual submit is mid-flight; it owns the attempt now.
		return
	}
	defer s.releaseLatch(assignment.ID, student.ID)

	if _, err := s.repo.Submission().GetByAssignmentAndStudent(ctx, assignment.ID, student.ID); err == nil {
		return
	} else if !repositories.IsNotFoundError(err) {
		s.logger.Error("Failed to check existing submission before auto-submit",
			"assignment_id", assignment.ID, "student_id", student.ID, "error", err)
		return
	}

	answers, err := s.drafts.Answers(ctx, assignment.ID, student.ID)
	if err != nil {
		s.logger.Error("Failed to load draft answers for auto-submit",
			"assignment_id", assignment.ID, "student_id", student.ID, "error", err)
		answers = models.AnswerSet{}
	}

	if _, err := s.finalize(ctx, assignment, questions, student, answers, true, ctrl); err != nil {
		s.logger.Error("Auto-submit failed",
			"assignment_id", assignment.ID, "student_id", student.ID, "error", err)
	}
}

// finalize builds, persists and announces a submission, then clears the
// timer persistence and drafts unconditionally. The caller holds the
// in-flight latch.
func (s *attemptService) finalize(
	ctx context.Context,
	assignment *models.Assignment,
	questions []models.Question,
	student models.StudentIdentity,
	answers models.AnswerSet,
	autoSubmitted bool,
	ctrl *timer.Controller,
) (*SubmissionResponse, error) {
	submission, results, err := grading.Build(assignment, questions, answers, student, autoSubmitted, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		if err == repositories.ErrDuplicateSubmission {
			return nil, ErrAlreadySubmitted
		}
		// Transient I/O failure: the latch is released by the caller's
		// defer, so the attempt stays resubmittable.
		return nil, fmt.Errorf("%w: %v", ErrSubmissionWriteFailed, err)
	}

	ctrl.Finalize(ctx)
	if err := s.drafts.Clear(ctx, assignment.ID, student.ID); err != nil {
		s.logger.Warn("Failed to clear draft answers", "assignment_id", assignment.ID, "error", err)
	}
	s.dropController(assignment.ID, student.ID)

	eventType := events.EventAttemptSubmitted
	if autoSubmitted {
		eventType = events.EventAttemptAutoSubmitted
	}
	s.publish(ctx, events.NewAttemptEvent(eventType, events.AttemptSubmittedEvent{
		SubmissionID:  submission.ID,
		AssignmentID:  assignment.ID,
		ClassID:       assignment.ClassID,
		StudentID:     student.ID,
		Grade:         submission.Grade,
		MaxPoints:     submission.MaxPoints,
		Status:        submission.Status,
		AutoSubmitted: autoSubmitted,
		SubmittedAt:   submission.SubmittedAt,
	}))

	if submission.Status == models.SubmissionPending {
		var indexes []int
		for _, r := range results {
			if r.NeedsManualGrading {
				indexes = append(indexes, r.Index)
			}
		}
		s.publish(ctx, events.NewAttemptEvent(events.EventManualGradingRequired, events.ManualGradingRequiredEvent{
			SubmissionID:    submission.ID,
			AssignmentID:    assignment.ID,
			ClassID:         assignment.ClassID,
			StudentID:       student.ID,
			QuestionIndexes: indexes,
		}))
	}

	s.logger.Info("Submission finalized",
		"submission_id", submission.ID,
		"assignment_id", assignment.ID,
		"student_id", student.ID,
		"grade", submission.Grade,
		"status", submission.Status,
		"auto_submitted", autoSubmitted)

	return &SubmissionResponse{Submission: submission, Results: results}, nil
}

// ===== HELPER FUNCTIONS =====

// loadAssignment fetches and validates an assignment. An unknown question
// type fails here, at load time, before any grading can happen.
func (s *attemptService) loadAssignment(ctx context.Context, id string) (*models.Assignment, []models.Question, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrAssignmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to get assignment: %w", err)
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

func (s *attemptService) reviewIfSubmitted(ctx context.Context, assignment *models.Assignment, questions []models.Question, studentID string) (*SubmissionResponse, error) {
	submission, err := s.repo.Submission().GetByAssignmentAndStudent(ctx, assignment.ID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}

	results, _, err := grading.Review(questions, submission)
	if err != nil {
		return nil, err
	}
	return &SubmissionResponse{Submission: submission, Results: results}, nil
}

func (s *attemptService) submittedResponse(assignment *models.Assignment, review *SubmissionResponse) *AttemptResponse {
	return &AttemptResponse{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		Description:  assignment.Description,
		DueDate:      assignment.DueDate,
		TotalPoints:  assignment.TotalPoints,
		TimeLimit:    assignment.TimeLimit,
		TimerState:   timer.StateFinalized,
		Submitted:    true,
		Review:       review,
	}
}

// controllerFor returns the attempt's timer controller, creating it with
// an expiry callback bound to this assignment and student.
func (s *attemptService) controllerFor(ctx context.Context, assignment *models.Assignment, questions []models.Question, student models.StudentIdentity) *timer.Controller {
	key := attemptKey(assignment.ID, student.ID)
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepControllersLocked(now)
	if entry, ok := s.timers[key]; ok {
		entry.touched = now
		return entry.ctrl
	}

	storeKey := cache.DeadlineKey(assignment.ID, student.ID)
	ctrl := timer.NewController(
		storeKey,
		assignment.TimeLimitDuration(),
		s.deadlines,
		s.clock,
		s.logger,
		func(expireCtx context.Context) {
			s.autoSubmitOnExpire(expireCtx, assignment, questions, student)
		},
	)
	s.timers[key] = &timerEntry{ctrl: ctrl, touched: now}
	return ctrl
}

// sweepControllersLocked drops controllers idle past the TTL so a
// long-lived process does not accumulate one per attempt ever started.
// Called with s.mu held.
func (s *attemptService) sweepControllersLocked(now time.Time) {
	if now.Sub(s.lastSweep) < controllerSweepEvery {
		return
	}
	s.lastSweep = now
	for key, entry := range s.timers {
		if now.Sub(entry.touched) > controllerIdleTTL {
			delete(s.timers, key)
		}
	}
}

// autoSubmitOnExpire looks the controller back up so the callback and the
// finalize path share one instance.
func (s *attemptService) autoSubmitOnExpire(ctx context.Context, assignment *models.Assignment, questions []models.Question, student models.StudentIdentity) {
	s.mu.Lock()
	entry := s.timers[attemptKey(assignment.ID, student.ID)]
	s.mu.Unlock()
	if entry == nil {
		return
	}
	s.autoSubmit(ctx, assignment, questions, student, entry.ctrl)
}

func (s *attemptService) dropController(assignmentID, studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, attemptKey(assignmentID, studentID))
}

func (s *attemptService) acquireLatch(assignmentID, studentID string) bool {
	key := attemptKey(assignmentID, studentID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] {
		return false
	}
	s.inFlight[key] = true
	return true
}

func (s *attemptService) releaseLatch(assignmentID, studentID string) {
	key := attemptKey(assignmentID, studentID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func (s *attemptService) mergeWithDrafts(ctx context.Context, assignment *models.Assignment, student models.StudentIdentity, answers models.AnswerSet) (models.AnswerSet, error) {
	merged, err := s.drafts.Answers(ctx, assignment.ID, student.ID)
	if err != nil {
		s.logger.Warn("Failed to load draft answers, grading submitted set only",
			"assignment_id", assignment.ID, "error", err)
		merged = models.AnswerSet{}
	}
	for index, raw := range answers {
		merged[index] = raw
	}
	return merged, nil
}

func (s *attemptService) publish(ctx context.Context, event *events.AttemptEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAttemptEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish attempt event", "event_type", event.Type, "error", err)
	}
}

// buildQuestionViews produces the learner-facing question list in a
// seeded presentation order, with per-question scrambled material and no
// answer keys. Seeds derive from the attempt scope and question ordinal,
// so a re-render mid-attempt shows the same arrangement.
func (s *attemptService) buildQuestionViews(assignment *models.Assignment, questions []models.Question, student models.StudentIdentity) []QuestionView {
	scope := attemptKey(assignment.ID, student.ID)
	order := shuffle.Indexes(len(questions), shuffle.SeedFor(scope, -1, ""))

	views := make([]QuestionView, 0, len(questions))
	for _, index := range order {
		q := &questions[index]
		seed := shuffle.SeedFor(scope, index, q.Text)

		view := QuestionView{
			Index:  index,
			ID:     q.ID,
			Type:   q.Type,
			Text:   q.Text,
			Points: q.Points,
		}

		switch q.Type {
		case models.MultipleChoice, models.TrueFalse:
			view.Options = shuffle.Strings(q.Options, seed)
		case models.Ordering:
			view.Items = shuffle.Strings(q.Items, seed)
		case models.Matching:
			lefts := make([]string, len(q.Pairs))
			rights := make([]string, len(q.Pairs))
			for i, pair := range q.Pairs {
				lefts[i] = pair.Left
				rights[i] = pair.Right
			}
			view.Lefts = lefts
			view.Rights = shuffle.Strings(rights, seed)
		case models.Categorize:
			var pool []string
			for _, category := range q.Categories {
				view.Categories = append(view.Categories, category.Name)
				pool = append(pool, category.Items...)
			}
			view.Pool = shuffle.Strings(pool, seed)
		case models.WordScramble:
			view.Letters = shuffle.Letters(q.CorrectText, seed)
		case models.SentenceBuilder:
			view.Words = shuffle.Words(q.CorrectSentence, seed)
		}

		views = append(views, view)
	}
	return views
}

func attemptKey(assignmentID, studentID string) string {
	return assignmentID + ":" + studentID
}
