// Package attendance contains the pure attendance regularity engine.
//
// The package turns already-fetched daily attendance rows into:
//
//   - per-state tallies (Aggregate, Counts)
//   - business-day counts for an inclusive window (BusinessDays)
//   - weighted absences, attendance percentage and regularity status
//     (RegularityPolicy, Calculator)
//   - weekday distributions (ByWeekday)
//   - justification and exclusion reason rankings (RankReasons)
//
// # Architectural principles
//
//  1. No I/O: every function works on values passed in by the caller
//  2. Dependency Inversion: RecordSource and RosterSource are implemented in infrastructure
//  3. Closed state set: a row outside State's enumeration is a data integrity error
//
// # Example
//
//	window, err := attendance.ParseDateRange("2025-03-03", "2025-03-28")
//	if err != nil {
//	    return err
//	}
//	counts, err := attendance.Aggregate(records)
//	if err != nil {
//	    return err
//	}
//	tally := attendance.NewTally(studentID, counts, window.BusinessDays())
//	result := attendance.NewCalculator(attendance.DefaultPolicy()).Evaluate(tally)
package attendance
