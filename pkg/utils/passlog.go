package utils

import "github.com/alantheprice/choices/pkg/itemvalue"

// PassLogger reports evaluator passes and runner faults to a Logger.
type PassLogger struct {
	Logger *Logger
}

// PassCompleted implements itemvalue.PassObserver.
func (p PassLogger) PassCompleted(stats itemvalue.PassStats) {
	p.Logger.Debugf("%s pass: %d items, %d changed, %d faults in %s",
		stats.Kind, stats.Items, stats.Changed, stats.Faults, stats.Duration)
}

// RunnerFault implements itemvalue.PassObserver.
func (p PassLogger) RunnerFault(item *itemvalue.Item, expression string, err error) {
	p.Logger.LogError(NewEvaluationError(expression, err).
		WithResource(item.ID()).
		WithMetadata("value", item.Value()))
}
