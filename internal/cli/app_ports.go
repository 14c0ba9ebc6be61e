package cli

import "github.com/alexanderramin/programhub/internal/app"

func (a *App) saveSnapshotUseCase() app.SaveSnapshotUseCase {
	if a.SaveSnapshot != nil {
		return a.SaveSnapshot
	}
	return a.Snapshots
}

func (a *App) updateCompletionUseCase() app.UpdateCompletionUseCase {
	if a.UpdateCompletion != nil {
		return a.UpdateCompletion
	}
	return a.Subtasks
}

func (a *App) importProgramUseCase() app.ImportProgramUseCase {
	if a.ImportProgram != nil {
		return a.ImportProgram
	}
	return a.Import
}
