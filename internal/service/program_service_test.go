package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramService_Create_ValidShortID(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	obs := &recordingObserver{}

	svc := NewProgramService(repos, testClock(), obs)

	p := &domain.Program{Name: "Project Neuron", ShortID: "nrn01", FYStartYear: 26, FYEndYear: 28}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID, "UUID should be generated")
	assert.Equal(t, "NRN01", p.ShortID)
	assert.Equal(t, testNow, p.CreatedAt)

	fetched, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Project Neuron", fetched.Name)
	assert.Equal(t, 26, fetched.FYStartYear)

	ev := obs.last(t)
	assert.Equal(t, "create-program", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, p.ID, ev.Fields["program_id"])
}

func TestProgramService_Create_InvalidInput(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewProgramService(repos, testClock(), obs)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, -1, 0)

	tests := []struct {
		name    string
		program domain.Program
	}{
		{"empty short id", domain.Program{Name: "X", FYStartYear: 26, FYEndYear: 27}},
		{"no digits", domain.Program{Name: "X", ShortID: "NEURON", FYStartYear: 26, FYEndYear: 27}},
		{"too short letters", domain.Program{Name: "X", ShortID: "NR01", FYStartYear: 26, FYEndYear: 27}},
		{"special chars", domain.Program{Name: "X", ShortID: "NR!01", FYStartYear: 26, FYEndYear: 27}},
		{"missing name", domain.Program{ShortID: "NRN01", FYStartYear: 26, FYEndYear: 27}},
		{"fiscal years reversed", domain.Program{Name: "X", ShortID: "NRN01", FYStartYear: 28, FYEndYear: 26}},
		{"three digit fiscal year", domain.Program{Name: "X", ShortID: "NRN01", FYStartYear: 26, FYEndYear: 128}},
		{"target before start", domain.Program{Name: "X", ShortID: "NRN01", FYStartYear: 26, FYEndYear: 27, StartDate: &start, TargetDate: &before}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.program
			err := svc.Create(ctx, &p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.False(t, obs.last(t).Success)
		})
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProgramService_Resolve(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	svc := NewProgramService(repos, testClock())

	byShort, err := svc.Resolve(ctx, "nrn01")
	require.NoError(t, err)
	assert.Equal(t, tr.program.ID, byShort.ID)

	byID, err := svc.Resolve(ctx, tr.program.ID)
	require.NoError(t, err)
	assert.Equal(t, "NRN01", byID.ShortID)

	_, err = svc.Resolve(ctx, "NOPE99")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Resolve(ctx, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProgramService_LoadTree(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	svc := NewProgramService(repos, testClock())

	p, err := svc.LoadTree(ctx, tr.program.ID)
	require.NoError(t, err)
	require.Len(t, p.Workstreams, 2)
	assert.Equal(t, "Platform", p.Workstreams[0].Name)
	assert.Equal(t, "Rollout", p.Workstreams[1].Name)

	require.Len(t, p.Workstreams[0].Subcomponents, 1)
	ingestion := p.Workstreams[0].Subcomponents[0]
	require.Len(t, ingestion.Subtasks, 2)
	assert.Equal(t, "Parser", ingestion.Subtasks[0].Title)
	assert.Equal(t, "Loader", ingestion.Subtasks[1].Title)

	require.Len(t, p.Workstreams[1].Subcomponents, 1)
	assert.Empty(t, p.Workstreams[1].Subcomponents[0].Subtasks)
}

func TestProgramService_UpdateAndDelete(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	svc := NewProgramService(repos, testClock())

	p, err := svc.GetByID(ctx, tr.program.ID)
	require.NoError(t, err)
	p.Name = "Neuron v2"
	p.FYEndYear = 29
	require.NoError(t, svc.Update(ctx, p))

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Neuron v2", got.Name)
	assert.Equal(t, 29, got.FYEndYear)
	assert.Equal(t, testNow, got.UpdatedAt)

	p.FYEndYear = 20
	assert.ErrorIs(t, svc.Update(ctx, p), ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.LoadTree(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	subtasks, err := repos.Subtasks.ListBySubcomponent(ctx, tr.ingestion.ID)
	require.NoError(t, err)
	assert.Empty(t, subtasks, "deleting a program cascades to its subtasks")

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), repository.ErrNotFound)
}
