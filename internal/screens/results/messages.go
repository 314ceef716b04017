package results

import "github.com/abhisek/adaptest/internal/api"

// resultsLoadedMsg carries every attempt on the server.
type resultsLoadedMsg struct {
	Results []api.TestResult
	Err     error
}

// exportedMsg reports where the export was written.
type exportedMsg struct {
	Path string
	Err  error
}
