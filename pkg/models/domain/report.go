package domain

import "time"

// Report represents a complete analysis report
type Report struct {
	Title       string
	Period      TimePeriod
	Sections    []ReportSection
	TotalAmount float64
	Currency    string
}

// TimePeriod represents a time range for the report
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// IsZero reports whether the period carries no dates.
func (p TimePeriod) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary []SummaryItem
	Details []ReportDetail
	Notes   []string
}

// SummaryItem is an ordered key/value line of a section summary.
type SummaryItem struct {
	Key   string
	Value string
}

// ReportDetail represents a table row within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
