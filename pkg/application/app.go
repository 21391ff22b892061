// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/prompts"
	"github.com/taostack/stakecycle/pkg/ux"
)

// App carries the process-wide collaborators every command needs: the
// application log, the user-facing output and the prompter. Built once in
// the root command and injected into each subcommand.
type App struct {
	Log    *zap.SugaredLogger
	UX     *ux.UserLog
	Prompt prompts.Prompter

	baseDir string
}

func New() *App {
	return &App{}
}

func (app *App) Setup(baseDir string, log *zap.SugaredLogger, userLog *ux.UserLog, prompt prompts.Prompter) {
	app.baseDir = baseDir
	app.Log = log
	app.UX = userLog
	app.Prompt = prompt
}

func (app *App) GetBaseDir() string {
	return app.baseDir
}

func (app *App) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}
