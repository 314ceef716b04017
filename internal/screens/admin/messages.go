package admin

import "github.com/abhisek/adaptest/internal/api"

// overviewLoadedMsg carries the results the overview is computed from.
type overviewLoadedMsg struct {
	Results []api.TestResult
	Err     error
}
