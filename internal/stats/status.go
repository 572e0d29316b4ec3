// Package stats derives live goal status and aggregate statistics.
package stats

import (
	"time"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/model"
)

// LiveStatus computes the status a goal should display at the given
// instant. A persisted DONE is sticky; any other persisted value is
// ignored and the status is derived from the clock against the goal's
// start.
func LiveStatus(now time.Time, g model.Goal) model.GoalStatus {
	if g.Status == model.StatusDone {
		return model.StatusDone
	}

	startAt, err := dateutil.ParseDateTime(g.StartAt)
	if err != nil {
		// Unparseable window: treat the goal as already started.
		return model.StatusInProgress
	}

	if now.Before(startAt) {
		return model.StatusFuture
	}
	return model.StatusInProgress
}

// statusRank orders statuses for display: active first, upcoming next,
// finished last.
var statusRank = map[model.GoalStatus]int{
	model.StatusInProgress: 0,
	model.StatusFuture:     1,
	model.StatusDone:       2,
}

// Rank returns the display sort rank of a status.
func Rank(s model.GoalStatus) int {
	return statusRank[s]
}
