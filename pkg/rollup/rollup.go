// Package rollup reduces attendance, fee and result records into the
// summary figures shown on reports and dashboards. Every caller computes
// its figures here so the same records always produce the same numbers.
package rollup

import (
	"math"
	"sort"
	"time"
)

// Attendance statuses.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLeave   = "Leave"
)

// Fee statuses and the overall fee labels.
const (
	FeePaid   = "Paid"
	FeeUnpaid = "Unpaid"

	FeeClear   = "Clear"
	FeePending = "Pending"
)

// AttendanceStats summarises a list of attendance marks.
type AttendanceStats struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Leave      int `json:"leave"`
	Percentage int `json:"percentage"`
}

// Attendance counts statuses and derives the rounded present percentage.
// An empty list yields zero.
func Attendance(statuses []string) AttendanceStats {
	stats := AttendanceStats{Total: len(statuses)}
	for _, s := range statuses {
		switch s {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		case StatusLeave:
			stats.Leave++
		}
	}
	stats.Percentage = Percent(float64(stats.Present), float64(stats.Total))
	return stats
}

// Mark is one attendance row tagged with its course.
type Mark struct {
	Course string
	Status string
}

// CourseAttendance is the attendance rollup for a single course.
type CourseAttendance struct {
	Course string `json:"course"`
	AttendanceStats
}

// AttendanceByCourse groups marks by course name, sorted by course.
func AttendanceByCourse(marks []Mark) []CourseAttendance {
	grouped := make(map[string][]string)
	for _, m := range marks {
		course := m.Course
		if course == "" {
			course = "Unknown"
		}
		grouped[course] = append(grouped[course], m.Status)
	}
	out := make([]CourseAttendance, 0, len(grouped))
	for course, statuses := range grouped {
		out = append(out, CourseAttendance{Course: course, AttendanceStats: Attendance(statuses)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Course < out[j].Course })
	return out
}

// Fee is the minimal view of a fee record the reducers need.
type Fee struct {
	Amount    float64
	Status    string
	CreatedAt time.Time
}

// FeeStats summarises a list of fees.
type FeeStats struct {
	Total          float64 `json:"total"`
	Paid           float64 `json:"paid"`
	Unpaid         float64 `json:"unpaid"`
	Status         string  `json:"status"`
	Records        int     `json:"records"`
	PaidRecords    int     `json:"paidRecords"`
	UnpaidRecords  int     `json:"unpaidRecords"`
	CollectionRate float64 `json:"collectionRate"`
}

// Fees sums amounts. Unpaid is always Total minus Paid and the status is
// Clear exactly when nothing is unpaid.
func Fees(fees []Fee) FeeStats {
	stats := FeeStats{Records: len(fees)}
	for _, f := range fees {
		stats.Total += f.Amount
		if f.Status == FeePaid {
			stats.Paid += f.Amount
			stats.PaidRecords++
		} else {
			stats.UnpaidRecords++
		}
	}
	stats.Unpaid = stats.Total - stats.Paid
	stats.Status = FeePending
	if stats.Unpaid == 0 {
		stats.Status = FeeClear
	}
	if stats.Total > 0 {
		stats.CollectionRate = Round2(stats.Paid / stats.Total * 100)
	}
	return stats
}

// MonthlyFees is the fee rollup for one calendar month.
type MonthlyFees struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Paid  float64 `json:"paid"`
}

// FeesByMonth buckets fees created in the months since the given number of
// months before now, oldest first. Months are keyed YYYY-MM.
func FeesByMonth(fees []Fee, months int, now time.Time) []MonthlyFees {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -months, 0)
	buckets := make(map[string]*MonthlyFees)
	for _, f := range fees {
		created := f.CreatedAt.UTC()
		if created.Before(start) {
			continue
		}
		key := created.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyFees{Month: key}
			buckets[key] = b
		}
		b.Total += f.Amount
		if f.Status == FeePaid {
			b.Paid += f.Amount
		}
	}
	out := make([]MonthlyFees, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// GPA averages grade points to two decimals. Empty input yields zero.
func GPA(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Round2(sum / float64(len(values)))
}

// Graded is one result row reduced to course, grade and grade point.
type Graded struct {
	Course string
	Grade  string
	GPA    float64
}

// CourseGPA is the average GPA of a course.
type CourseGPA struct {
	Course       string  `json:"course"`
	AverageGPA   float64 `json:"averageGPA"`
	StudentCount int     `json:"studentCount"`
}

// Performance is the grade distribution and GPA breakdown of a result set.
type Performance struct {
	GradeDistribution map[string]int `json:"gradeDistribution"`
	AverageGPA        float64        `json:"avgGPA"`
	CoursePerformance []CourseGPA    `json:"coursePerformance"`
	TotalResults      int            `json:"totalResults"`
}

// Summarize builds the performance view. Unknown letters are not counted in
// the distribution.
func Summarize(results []Graded, letters []string) Performance {
	perf := Performance{
		GradeDistribution: make(map[string]int, len(letters)),
		TotalResults:      len(results),
	}
	for _, l := range letters {
		perf.GradeDistribution[l] = 0
	}

	all := make([]float64, 0, len(results))
	byCourse := make(map[string][]float64)
	for _, r := range results {
		if _, ok := perf.GradeDistribution[r.Grade]; ok {
			perf.GradeDistribution[r.Grade]++
		}
		all = append(all, r.GPA)
		course := r.Course
		if course == "" {
			course = "Unknown"
		}
		byCourse[course] = append(byCourse[course], r.GPA)
	}
	perf.AverageGPA = GPA(all)

	perf.CoursePerformance = make([]CourseGPA, 0, len(byCourse))
	for course, values := range byCourse {
		perf.CoursePerformance = append(perf.CoursePerformance, CourseGPA{
			Course:       course,
			AverageGPA:   GPA(values),
			StudentCount: len(values),
		})
	}
	sort.Slice(perf.CoursePerformance, func(i, j int) bool {
		return perf.CoursePerformance[i].Course < perf.CoursePerformance[j].Course
	})
	return perf
}

// AttendanceLabel buckets a percentage into Good, Fair or Low.
func AttendanceLabel(percentage int) string {
	switch {
	case percentage >= 75:
		return "Good"
	case percentage >= 50:
		return "Fair"
	default:
		return "Low"
	}
}

// Percent returns round(100*part/whole), or zero when whole is zero.
func Percent(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
