package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/estimate"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/repository"
	"github.com/google/uuid"
)

type subtaskService struct {
	subtasks repository.SubtaskRepo
	notes    repository.CompletionNoteRepo
	uow      db.UnitOfWork
	clock    period.Clock
	observer UseCaseObserver
}

func NewSubtaskService(repos Repos, uow db.UnitOfWork, clock period.Clock, observers ...UseCaseObserver) SubtaskService {
	return &subtaskService{
		subtasks: repos.Subtasks,
		notes:    repos.Notes,
		uow:      uow,
		clock:    clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *subtaskService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

func (s *subtaskService) Create(ctx context.Context, st *domain.Subtask) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subcomponent_id": st.SubcomponentID}
	defer observe(ctx, s.observer, "create-subtask", startedAt, fields, &err)

	st.Title = strings.TrimSpace(st.Title)
	if st.SubcomponentID == "" {
		return invalid("subtask subcomponent is required")
	}
	if st.Title == "" {
		return invalid("subtask title is required")
	}
	if st.Points < 0 {
		return invalid("points must be >= 0 (got %d)", st.Points)
	}
	if st.Estimation != nil {
		if _, err := applyEstimation(st, *st.Estimation); err != nil {
			return err
		}
		fields["estimated"] = true
	}
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.OrderIndex == 0 {
		existing, err := s.subtasks.ListBySubcomponent(ctx, st.SubcomponentID)
		if err != nil {
			return err
		}
		st.OrderIndex = len(existing)
	}
	now := s.now()
	st.CreatedAt = now
	st.SetCompletion(st.CompletionPercent, now)
	fields["points"] = st.Points
	return s.subtasks.Create(ctx, st)
}

func (s *subtaskService) GetByID(ctx context.Context, id string) (*domain.Subtask, error) {
	return s.subtasks.GetByID(ctx, id)
}

func (s *subtaskService) ListBySubcomponent(ctx context.Context, subcomponentID string) ([]*domain.Subtask, error) {
	return s.subtasks.ListBySubcomponent(ctx, subcomponentID)
}

func (s *subtaskService) UpdateEstimation(ctx context.Context, id string, est domain.Estimation) (st *domain.Subtask, res estimate.Result, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subtask_id": id, "days": est.Days}
	defer observe(ctx, s.observer, "estimate-subtask", startedAt, fields, &err)

	st, err = s.subtasks.GetByID(ctx, id)
	if err != nil {
		return nil, estimate.Result{}, err
	}
	res, err = applyEstimation(st, est)
	if err != nil {
		return nil, estimate.Result{}, err
	}
	st.UpdatedAt = s.now()
	if err := s.subtasks.Update(ctx, st); err != nil {
		return nil, estimate.Result{}, err
	}
	fields["points"] = st.Points
	return st, res, nil
}

// applyEstimation stores est on st and sets Points to the rounded estimator
// output so stored points always agree with the estimate.
func applyEstimation(st *domain.Subtask, est domain.Estimation) (estimate.Result, error) {
	est = est.Normalized()
	if !est.Active() {
		return estimate.Result{}, invalid("estimated days must be > 0")
	}
	res := estimate.ForEstimation(est)
	st.Estimation = &est
	st.Points = estimate.FinalAsNumber(res.Final)
	return res, nil
}

func (s *subtaskService) SetManualPoints(ctx context.Context, id string, points int) (*domain.Subtask, error) {
	st, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := st.SetManualPoints(points, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.subtasks.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateCompletion records a new completion percentage and appends a note in
// the same transaction. An unchanged percentage writes nothing.
func (s *subtaskService) UpdateCompletion(ctx context.Context, req app.CompletionUpdate) (result *app.CompletionResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subtask_id": req.SubtaskID, "percent": req.Percent}
	defer observe(ctx, s.observer, "update-completion", startedAt, fields, &err)

	if req.Percent < 0 || req.Percent > 100 {
		return nil, invalid("completion must be between 0 and 100 (got %d)", req.Percent)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubtasks := repository.NewSQLiteSubtaskRepo(tx)
		txNotes := repository.NewSQLiteCompletionNoteRepo(tx)

		st, err := txSubtasks.GetByID(ctx, req.SubtaskID)
		if err != nil {
			return err
		}
		result = &app.CompletionResult{Subtask: st}
		if st.CompletionPercent == req.Percent {
			return nil
		}

		now := s.clock.Now().UTC()
		prev := st.SetCompletion(req.Percent, now.Truncate(time.Second))
		if err := txSubtasks.Update(ctx, st); err != nil {
			return err
		}

		note := &domain.CompletionNote{
			ID:              uuid.New().String(),
			SubtaskID:       st.ID,
			PreviousPercent: prev,
			NewPercent:      st.CompletionPercent,
			Reason:          strings.TrimSpace(req.Reason),
			ActorID:         req.ActorID,
			CreatedAt:       now,
		}
		if err := txNotes.Append(ctx, note); err != nil {
			return err
		}
		result.Note = note
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["changed"] = result.Note != nil
	return result, nil
}

func (s *subtaskService) History(ctx context.Context, id string) ([]*domain.CompletionNote, error) {
	if _, err := s.subtasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.notes.ListBySubtask(ctx, id)
}

func (s *subtaskService) Delete(ctx context.Context, id string) error {
	return s.subtasks.Delete(ctx, id)
}
