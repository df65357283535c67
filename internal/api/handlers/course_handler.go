package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/services"
)

// CourseHandler handles HTTP requests for courses, assignments and enrollments.
type CourseHandler struct {
	service services.CourseServiceProvider
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(service services.CourseServiceProvider) *CourseHandler {
	return &CourseHandler{service: service}
}

// CreateCourse creates a new course.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.service.CreateCourse(payload.Name)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// CreateAssignment creates a new assignment in a course.
func (h *CourseHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CourseID string `json:"courseId"`
		Title    string `json:"title"`
		DueDate  string `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, err := h.service.CreateAssignment(payload.CourseID, payload.Title, payload.DueDate)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

// Enroll links a student to a course.
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		StudentID string `json:"studentId"`
		CourseID  string `json:"courseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.EnrollStudent(payload.StudentID, payload.CourseID); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "enrolled"})
}

// ListAssignments returns all assignments for a course.
func (h *CourseHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	assignments, err := h.service.GetAssignmentsForCourse(courseID)
	if err != nil {
		log.Error().Err(err).Str("course_id", courseID).Msg("Failed to list assignments")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}
