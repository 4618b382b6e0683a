package models

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// StudentIdentity is the display identity attached to a submission. It
// comes from the auth collaborator and never influences grading.
type StudentIdentity struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// RosterContext is class/teacher metadata supplied by the roster
// collaborator, used only for display.
type RosterContext struct {
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
}
