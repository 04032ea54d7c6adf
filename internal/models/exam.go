package models

import (
	"time"
)

// Status an exam's application goes through as time passes. The sequence is
// monotonic: Open, then Closed once the deadline is behind us, then Over once
// the exam date is behind us.
type Status string

const (
	StatusOpen   Status = "Application Open"
	StatusClosed Status = "Application Closed"
	StatusOver   Status = "Exam Over"
)

type Exam struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID  string    `gorm:"not null;type:varchar(36);index" json:"owner_id"`
	ExamName string    `gorm:"not null;type:varchar(255)" json:"exam_name"`
	ExamType string    `gorm:"type:varchar(255)" json:"exam_type"`
	ExamDate time.Time `gorm:"not null;type:date" json:"exam_date"`
	Deadline time.Time `gorm:"not null;type:date" json:"deadline"`
	Notes    string    `gorm:"type:text" json:"notes"`
	Link     string    `gorm:"type:varchar(500)" json:"link"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamView is an Exam decorated with the fields derived at read time. It is
// what the listing template consumes; nothing in it is persisted.
type ExamView struct {
	Exam
	DaysLeft int
	Status   Status
}

// View computes the derived fields for the exam as of the given day.
func (e Exam) View(today time.Time) ExamView {
	return ExamView{
		Exam:     e,
		DaysLeft: DaysBetween(today, e.ExamDate),
		Status:   StatusOn(today, e.ExamDate, e.Deadline),
	}
}

// StatusOn computes the displayed status for an exam as of the given day.
// Both comparisons are strict: on the exam date itself the exam is not over,
// and on the deadline day the application is still open.
func StatusOn(today, examDate, deadline time.Time) Status {
	today = DateOnly(today)
	switch {
	case today.After(DateOnly(examDate)):
		return StatusOver
	case today.After(DateOnly(deadline)):
		return StatusClosed
	default:
		return StatusOpen
	}
}

// DaysBetween returns the number of whole calendar days from one day to
// another, negative when `to` is in the past.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// DateOnly strips the time-of-day and timezone from t. Exam dates carry no
// time component; normalizing to UTC midnight keeps day arithmetic exact.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
