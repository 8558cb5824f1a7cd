package reporter

import "time"

// defaultWindow is applied when one or both period bounds are absent.
const defaultWindow = 7 * 24 * time.Hour

// ResolveWindow turns optional period bounds into a concrete inclusive
// window. A lone start extends forward by a week, a lone end reaches
// back by a week, absent bounds mean "the last week", and inverted
// bounds are swapped.
func ResolveWindow(start, end *time.Time, now time.Time) (time.Time, time.Time) {
	var resolvedStart, resolvedEnd time.Time

	switch {
	case start != nil && end != nil:
		resolvedStart, resolvedEnd = *start, *end
	case start != nil:
		resolvedStart, resolvedEnd = *start, start.Add(defaultWindow)
	case end != nil:
		resolvedStart, resolvedEnd = end.Add(-defaultWindow), *end
	default:
		resolvedStart, resolvedEnd = now.Add(-defaultWindow), now
	}

	if resolvedStart.After(resolvedEnd) {
		resolvedStart, resolvedEnd = resolvedEnd, resolvedStart
	}

	return resolvedStart, resolvedEnd
}
