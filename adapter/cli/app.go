package cli

import (
	"github.com/callsheethq/callsheet/internal/priority/application/commands"
	"github.com/callsheethq/callsheet/internal/priority/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	// Priority Query Handlers
	AnalyzeHandler *queries.AnalyzePrioritiesHandler
	CachedHandler  *queries.GetCachedAnalysisHandler

	// Priority Command Handlers
	ApplyHandler *commands.ApplyPrioritiesHandler
}

var currentApp *App

// SetApp installs the wired application for command handlers to use.
func SetApp(app *App) {
	currentApp = app
}

// GetApp returns the wired application, or nil when wiring failed.
func GetApp() *App {
	return currentApp
}
