package summary

import (
	"sort"
)

// ActionType enumerates the type of action taken on a target dashboard.
type ActionType string

// Action types emitted by the converter for observability.
const (
	ActionCreated  ActionType = "created"
	ActionUpdated  ActionType = "updated"
	ActionSkipped  ActionType = "skipped"
	ActionMigrated ActionType = "migrated"
	ActionPruned   ActionType = "pruned"
)

// Reason values describing why an action occurred.
const (
	ReasonConverted        = "Converted"
	ReasonContentChanged   = "ContentChanged"
	ReasonAlreadyConverted = "AlreadyConverted"
	ReasonModeChanged      = "ModeChanged"
	ReasonInvalidDocument  = "InvalidDocument"
	ReasonNameConflict     = "NameConflict"
	ReasonForeignOwner     = "ForeignOwner"
	ReasonSourceGone       = "SourceGone"
	ReasonKeyRemoved       = "KeyRemoved"
)

// DashboardAction captures a single action taken for a target dashboard.
type DashboardAction struct {
	Dashboard string
	Key       string
	Action    ActionType
	Reason    string
}

// Summary aggregates one conversion pass for metrics and events.
type Summary struct {
	Source  string
	Actions []DashboardAction
}

// Record appends an action to the summary.
func (s *Summary) Record(dashboard, key string, action ActionType, reason string) {
	s.Actions = append(s.Actions, DashboardAction{Dashboard: dashboard, Key: key, Action: action, Reason: reason})
}

// Count returns the number of actions for the provided type.
func (s *Summary) Count(t ActionType) int {
	if s == nil {
		return 0
	}
	count := 0
	for _, a := range s.Actions {
		if a.Action == t {
			count++
		}
	}
	return count
}

// Sorted returns the actions ordered by dashboard name for stable output.
func (s *Summary) Sorted() []DashboardAction {
	if s == nil {
		return nil
	}
	out := append([]DashboardAction(nil), s.Actions...)
	sort.Slice(out, func(i, j int) bool { return out[i].Dashboard < out[j].Dashboard })
	return out
}
