package services

import "errors"

// ErrGoalClosed is returned when contributing to a goal that is no longer
// ongoing.
var ErrGoalClosed = errors.New("savings goal is closed")
