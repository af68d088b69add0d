package trigger

import "strings"

// SuiteFor resolves which check suite a trigger selects. An explicit suite
// on the trigger wins; otherwise policy applies:
//
//   - manual dispatch runs the full suite
//   - weekly (day-of-week constrained) schedules run the full suite
//   - more frequent schedules run static-only
//   - push and pull_request runs are static-only
func (t Trigger) SuiteFor() Suite {
	if t.Suite != "" {
		return t.Suite
	}

	switch t.Kind {
	case KindManual:
		return SuiteFull
	case KindSchedule:
		if isWeekly(t.Cron) {
			return SuiteFull
		}
		return SuiteStatic
	default:
		return SuiteStatic
	}
}

// isWeekly reports whether a standard 5-field cron expression constrains the
// day-of-week field, i.e. fires at most weekly per listed day.
func isWeekly(expr string) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	dow := fields[4]
	return dow != "*" && !strings.HasPrefix(dow, "*/")
}
