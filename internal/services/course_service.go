package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/classdesk/classdesk-be/internal/models"
)

// CourseServiceProvider defines the interface for course and assignment services.
type CourseServiceProvider interface {
	CreateCourse(name string) (models.Course, error)
	CreateAssignment(courseID, title, dueDate string) (models.Assignment, error)
	EnrollStudent(studentID, courseID string) error
	GetAssignmentsForCourse(courseID string) ([]models.Assignment, error)
	DueReminders(dueDate string) ([]models.DueReminder, error)
}

// CourseService provides business logic for courses, assignments and enrollments.
type CourseService struct {
	db *sql.DB
}

// NewCourseService creates a new CourseService.
func NewCourseService(db *sql.DB) *CourseService {
	return &CourseService{db: db}
}

// CreateCourse creates a new course.
func (s *CourseService) CreateCourse(name string) (models.Course, error) {
	if strings.TrimSpace(name) == "" {
		return models.Course{}, fmt.Errorf("%w: course name is required", ErrValidation)
	}

	course := models.Course{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	_, err := s.db.Exec("INSERT INTO courses (id, name, created_at) VALUES (?, ?, ?)",
		course.ID, course.Name, course.CreatedAt)
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// CreateAssignment creates an assignment for an existing course. dueDate must
// be a plain date ("2006-01-02"); reminders compare at date granularity.
func (s *CourseService) CreateAssignment(courseID, title, dueDate string) (models.Assignment, error) {
	if strings.TrimSpace(title) == "" {
		return models.Assignment{}, fmt.Errorf("%w: assignment title is required", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", dueDate); err != nil {
		return models.Assignment{}, fmt.Errorf("%w: due date must be YYYY-MM-DD", ErrValidation)
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM courses WHERE id = ?", courseID).Scan(&exists); err != nil {
		return models.Assignment{}, err
	}
	if exists == 0 {
		return models.Assignment{}, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
	}

	assignment := models.Assignment{
		ID:       uuid.New().String(),
		CourseID: courseID,
		Title:    title,
		DueDate:  dueDate,
	}
	_, err := s.db.Exec("INSERT INTO assignments (id, course_id, title, due_date) VALUES (?, ?, ?, ?)",
		assignment.ID, assignment.CourseID, assignment.Title, assignment.DueDate)
	if err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

// EnrollStudent links an existing student to an existing course. Enrolling
// twice is a no-op.
func (s *CourseService) EnrollStudent(studentID, courseID string) error {
	if studentID == "" || courseID == "" {
		return fmt.Errorf("%w: student and course are required", ErrValidation)
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE id = ?", studentID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("%w: student %s", ErrNotFound, studentID)
	}
	if err := s.db.QueryRow("SELECT COUNT(1) FROM courses WHERE id = ?", courseID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("%w: course %s", ErrNotFound, courseID)
	}

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO enrollments (student_id, course_id) VALUES (?, ?)", studentID, courseID)
	return err
}

// GetAssignmentsForCourse retrieves all assignments for a course, soonest due first.
func (s *CourseService) GetAssignmentsForCourse(courseID string) ([]models.Assignment, error) {
	rows, err := s.db.Query(
		"SELECT id, course_id, title, due_date, created_at FROM assignments WHERE course_id = ? ORDER BY due_date ASC", courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Title, &a.DueDate, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// DueReminders returns one row per (assignment, enrolled student) pair for
// assignments due on exactly the given date.
func (s *CourseService) DueReminders(dueDate string) ([]models.DueReminder, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.title, a.due_date, c.name, u.email, u.full_name
		FROM assignments a
		JOIN courses c ON c.id = a.course_id
		JOIN enrollments e ON e.course_id = a.course_id
		JOIN users u ON u.id = e.student_id
		WHERE a.due_date = ?
		ORDER BY a.title, u.email`, dueDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.DueReminder
	for rows.Next() {
		var r models.DueReminder
		if err := rows.Scan(&r.AssignmentID, &r.Title, &r.DueDate, &r.CourseName, &r.StudentEmail, &r.StudentName); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
