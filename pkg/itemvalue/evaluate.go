package itemvalue

import "time"

// RunConditions is the visibility pass. Each item's visibleIf runner is used
// when useItemExpression is set and the item has one; otherwise runner (which
// may be nil) applies. Items that end up visible are appended to filtered
// when it is non-nil. The result reports whether any IsVisible flag changed.
func RunConditions(items []*Item, filtered *[]*Item, runner ConditionRunner, vals, properties map[string]any, useItemExpression bool) bool {
	return runConditionsCore(items, filtered, runner, vals, properties, true, useItemExpression, nil)
}

// RunEnabledConditions is the enablement pass. gate is consulted only for
// items whose expression result is true and may veto enablement.
func RunEnabledConditions(items []*Item, runner ConditionRunner, vals, properties map[string]any, gate func(*Item) bool) bool {
	return runConditionsCore(items, nil, runner, vals, properties, false, true, gate)
}

// runConditionsCore binds "item" and "choice" in vals to each item's value
// while it is evaluated and restores both keys exactly before returning.
// Runner errors count as true for that item and are reported to the observer.
func runConditionsCore(
	items []*Item,
	filtered *[]*Item,
	runner ConditionRunner,
	vals, properties map[string]any,
	forVisibility, useItemExpression bool,
	gate func(*Item) bool,
) bool {
	if vals == nil {
		vals = make(map[string]any)
	}
	start := time.Now()
	obs := currentObserver()
	stats := PassStats{Kind: EnablementPass}
	if forVisibility {
		stats.Kind = VisibilityPass
	}

	prevItem, hadItem := vals["item"]
	prevChoice, hadChoice := vals["choice"]
	defer func() {
		restore(vals, "item", prevItem, hadItem)
		restore(vals, "choice", prevChoice, hadChoice)
	}()

	for _, it := range items {
		if it == nil {
			continue
		}
		stats.Items++
		vals["item"] = it.Value()
		vals["choice"] = it.Value()

		var r ConditionRunner
		if useItemExpression {
			r = it.ConditionRunner(forVisibility)
		}
		if r == nil {
			r = runner
		}
		result := true
		if r != nil {
			ok, err := r.Run(vals, properties)
			if err != nil {
				stats.Faults++
				obs.RunnerFault(it, r.Expression(), err)
				ok = true
			}
			result = ok
		}
		if result && gate != nil {
			result = gate(it)
		}
		if filtered != nil && result {
			*filtered = append(*filtered, it)
			stats.Filtered++
		}

		if forVisibility {
			if it.IsVisible() != result {
				it.SetIsVisible(result)
				stats.Changed++
			}
		} else if it.IsEnabled() != result {
			it.SetIsEnabled(result)
			stats.Changed++
		}
	}

	stats.Duration = time.Since(start)
	obs.PassCompleted(stats)
	return stats.Changed > 0
}

func restore(vals map[string]any, key string, prev any, had bool) {
	if had {
		vals[key] = prev
		return
	}
	delete(vals, key)
}
