// Package tui provides the Bubble Tea dashboard for RegLens.
package tui

import (
	regclient "github.com/reglens/reglens-go"
)

// sessionStartedMsg is sent when a streaming ask session has been opened.
type sessionStartedMsg struct {
	Session  *regclient.Session
	Warnings []regclient.ValidationWarning
}

// askFailedMsg is sent when a session could not be opened at all.
type askFailedMsg struct {
	Err error
}

// answerUpdateMsg carries one snapshot from the session update channel.
// Closed reports that the channel has been closed and no more will come.
type answerUpdateMsg struct {
	State  regclient.AnswerState
	Closed bool
}

// documentsLoadedMsg is sent when the document listing has been fetched.
type documentsLoadedMsg struct {
	Documents []regclient.Document
	Err       error
}

// topicsLoadedMsg is sent when the topic index has been fetched.
type topicsLoadedMsg struct {
	Topics []regclient.Topic
	Err    error
}

// alertsLoadedMsg is sent when regulatory alerts have been fetched.
type alertsLoadedMsg struct {
	Alerts []regclient.Alert
	Err    error
}

// checklistsLoadedMsg is sent when compliance checklists have been fetched.
type checklistsLoadedMsg struct {
	Checklists []regclient.Checklist
	Err        error
}

// analyticsLoadedMsg is sent when the corpus analytics summary has been fetched.
type analyticsLoadedMsg struct {
	Summary *regclient.AnalyticsSummary
	Err     error
}
