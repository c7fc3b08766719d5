package report

import (
	"fmt"
	"time"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/pkg/timeutil"
)

// Input is everything Assemble needs, already fetched.
type Input struct {
	Course attendance.Course
	Range  attendance.DateRange

	// Roster is ordered by surname, given name; the order is preserved.
	Roster  []attendance.Student
	Records []attendance.Record

	// Policy defaults to attendance.DefaultPolicy when zero.
	Policy attendance.RegularityPolicy

	// Catalogs default to the institution's predefined tables when nil.
	JustificationCatalog attendance.ReasonCatalog
	ExclusionCatalog     attendance.ReasonCatalog

	// Now defaults to time.Now.
	Now func() time.Time
}

// Assemble builds a CourseReport.
//
// An invalid range or a record outside the closed state set aborts the whole
// report. A student whose rows are inconsistent (two rows on one date, a row
// outside the window or from another course) is returned with a zeroed tally
// and an error marker while the rest of the roster continues.
func Assemble(in Input) (*CourseReport, error) {
	const op = "Assemble"

	if err := in.Range.Validate(); err != nil {
		return nil, err
	}

	calc := attendance.NewCalculator(in.Policy)
	justCatalog := in.JustificationCatalog
	if justCatalog == nil {
		justCatalog = attendance.DefaultJustificationCatalog()
	}
	exclCatalog := in.ExclusionCatalog
	if exclCatalog == nil {
		exclCatalog = attendance.DefaultExclusionCatalog()
	}
	now := in.Now
	if now == nil {
		now = time.Now
	}

	// (a) course-wide distribution
	general, err := attendance.Aggregate(in.Records)
	if err != nil {
		return nil, err
	}

	rep := &CourseReport{
		Course:           in.Course,
		Range:            in.Range,
		BusinessDays:     in.Range.BusinessDays(),
		General:          GeneralStats{Counts: general, Percentages: general.Percentages()},
		Students:         make([]StudentStats, 0, len(in.Roster)),
		TotalStudents:    len(in.Roster),
		RegularThreshold: calc.Policy().RegularThreshold(),
		GeneratedAt:      now().UTC(),
	}

	// (b) per student, roster order
	byStudent := make(map[string][]attendance.Record, len(in.Roster))
	for _, r := range in.Records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	for _, st := range in.Roster {
		stats, err := computeStudent(calc, st, byStudent[st.ID], in.Course.ID, in.Range, rep.BusinessDays)
		if err != nil {
			perr := shared.PerStudent(st.ID, err)
			stats = StudentStats{
				Student: st,
				Tally:   attendance.Tally{StudentID: st.ID},
				Err:     perr,
				Error:   perr.Error(),
			}
		}
		rep.Students = append(rep.Students, stats)
	}

	// (c) weekday buckets
	rep.ByWeekday, err = attendance.ByWeekday(in.Records)
	if err != nil {
		return nil, err
	}

	// (d) reason rankings
	rep.TopJustificationReasons, err = attendance.RankReasons(in.Records, attendance.StateJustified, justCatalog, attendance.DefaultReasonLimit)
	if err != nil {
		return nil, shared.WrapError("report", op, shared.ErrInvalidInput, "rank justification reasons", err)
	}
	rep.TopExclusionReasons, err = attendance.RankReasons(in.Records, attendance.StateExcluded, exclCatalog, attendance.DefaultReasonLimit)
	if err != nil {
		return nil, shared.WrapError("report", op, shared.ErrInvalidInput, "rank exclusion reasons", err)
	}

	// (e) status summary over the full roster
	for _, s := range rep.Students {
		if s.Failed() {
			rep.FailedCount++
			continue
		}
		switch s.Regularity.Status {
		case attendance.StatusRegular:
			rep.RegularCount++
		case attendance.StatusAtRisk:
			rep.AtRiskCount++
		case attendance.StatusWithdrawn:
			rep.WithdrawnCount++
		}
	}
	rep.RegularPct = shared.PercentOf(rep.RegularCount, rep.TotalStudents)
	rep.AtRiskPct = shared.PercentOf(rep.AtRiskCount, rep.TotalStudents)
	rep.WithdrawnPct = shared.PercentOf(rep.WithdrawnCount, rep.TotalStudents)

	return rep, nil
}

func computeStudent(
	calc attendance.Calculator,
	st attendance.Student,
	records []attendance.Record,
	courseID string,
	window attendance.DateRange,
	businessDays int,
) (StudentStats, error) {
	seen := make(map[time.Time]struct{}, len(records))
	for _, r := range records {
		if courseID != "" && r.CourseID != "" && r.CourseID != courseID {
			return StudentStats{}, shared.DataIntegrity("computeStudent",
				fmt.Sprintf("record on %s belongs to course %s", timeutil.FormatDate(r.Date), r.CourseID))
		}
		if !window.Contains(r.Date) {
			return StudentStats{}, shared.DataIntegrity("computeStudent",
				fmt.Sprintf("record on %s is outside %s", timeutil.FormatDate(r.Date), window))
		}
		day := timeutil.CivilDate(r.Date)
		if _, dup := seen[day]; dup {
			return StudentStats{}, shared.DataIntegrity("computeStudent",
				fmt.Sprintf("more than one record on %s", timeutil.FormatDate(day)))
		}
		seen[day] = struct{}{}
	}

	counts, err := attendance.Aggregate(records)
	if err != nil {
		return StudentStats{}, err
	}
	tally := attendance.NewTally(st.ID, counts, businessDays)

	return StudentStats{
		Student:    st,
		Tally:      tally,
		Regularity: calc.Evaluate(tally),
	}, nil
}
