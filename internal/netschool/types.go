// Package netschool is a client for the NetSchool ("Сетевой Город") web API:
// the salt/digest login handshake, the student diary, and logout.
package netschool

import (
	"context"
	"time"
)

// Diary is a week of the student's diary.
type Diary struct {
	WeekStart time.Time
	Days      []Day
}

// Day is one calendar day with its lessons.
type Day struct {
	Date    time.Time
	Lessons []Lesson
}

// Lesson is one scheduled lesson with its assignments.
type Lesson struct {
	Subject     string
	Assignments []Assignment
}

// Assignment is a single assignment. Mark is empty when no mark was given.
type Assignment struct {
	Content string
	Mark    string
}

// DiaryProvider is the authenticated portal handle the bot keeps per session.
type DiaryProvider interface {
	// Diary fetches the current week's diary.
	Diary(ctx context.Context) (*Diary, error)

	// Logout invalidates the portal session.
	Logout(ctx context.Context) error
}
