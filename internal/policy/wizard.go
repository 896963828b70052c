package policy

import "insurance-workers/internal/models"

// SelectCondition adds condition to history. Choosing "None" clears every other
// entry and choosing anything else drops "None".
func SelectCondition(history []string, condition string) []string {
	if condition == models.ConditionNone {
		return []string{models.ConditionNone}
	}
	out := make([]string, 0, len(history)+1)
	for _, h := range history {
		if h == condition {
			return withoutNone(history)
		}
		if h != models.ConditionNone {
			out = append(out, h)
		}
	}
	return append(out, condition)
}

// ToggleCondition flips condition in history, keeping "None" exclusive.
func ToggleCondition(history []string, condition string) []string {
	for i, h := range history {
		if h == condition {
			out := make([]string, 0, len(history)-1)
			out = append(out, history[:i]...)
			return append(out, history[i+1:]...)
		}
	}
	return SelectCondition(history, condition)
}

// NormalizeHistory replays selections in order, so the last exclusive choice wins.
func NormalizeHistory(selections []string) []string {
	history := []string{}
	for _, s := range selections {
		if s == "" {
			continue
		}
		history = SelectCondition(history, s)
	}
	return history
}

func withoutNone(history []string) []string {
	out := make([]string, 0, len(history))
	for _, h := range history {
		if h != models.ConditionNone {
			out = append(out, h)
		}
	}
	return out
}
