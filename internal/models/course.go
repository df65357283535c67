package models

import "time"

// Course represents a course that students can be enrolled in.
type Course struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Assignment represents a graded task belonging to a course. DueDate is held
// at date granularity, formatted as "2006-01-02".
type Assignment struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	DueDate   string    `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	StudentID string `json:"studentId"`
	CourseID  string `json:"courseId"`
}

// ReminderRun is the per-day ledger row recording one execution of the
// assignment reminder job.
type ReminderRun struct {
	RunDate    string    `json:"runDate"` // "2006-01-02"
	Dispatched int       `json:"dispatched"`
	Failed     int       `json:"failed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DueReminder is one (assignment, enrolled student) pair produced by the
// due-tomorrow query and consumed by the reminder scheduler.
type DueReminder struct {
	AssignmentID string `json:"assignmentId"`
	Title        string `json:"title"`
	DueDate      string `json:"dueDate"`
	CourseName   string `json:"courseName"`
	StudentEmail string `json:"studentEmail"`
	StudentName  string `json:"studentName"`
}
