package domain

import "time"

// AccountStatus enumerates possible account states.
type AccountStatus string

const (
	StatusActive              AccountStatus = "active"
	StatusSuspended           AccountStatus = "suspended"
	StatusPendingVerification AccountStatus = "pending_verification"
)

// Role enumerates the access levels an account can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SecurityQuestion is one of a closed set of recovery question templates.
// Free-text questions are deliberately not supported so the answer-hash
// comparison stays well defined.
type SecurityQuestion string

const (
	QuestionFirstPet        SecurityQuestion = "What was the name of your first pet?"
	QuestionMotherMaiden    SecurityQuestion = "What is your mother's maiden name?"
	QuestionFirstSchool     SecurityQuestion = "What was the name of your first school?"
	QuestionChildhoodCity   SecurityQuestion = "In what city did you spend most of your childhood?"
	QuestionFavoriteTeacher SecurityQuestion = "Who was your favorite teacher?"
	QuestionFirstCar        SecurityQuestion = "What was the make and model of your first car?"
)

// SecurityQuestions returns the closed set of supported recovery questions.
func SecurityQuestions() []SecurityQuestion {
	return []SecurityQuestion{
		QuestionFirstPet,
		QuestionMotherMaiden,
		QuestionFirstSchool,
		QuestionChildhoodCity,
		QuestionFavoriteTeacher,
		QuestionFirstCar,
	}
}

// Valid reports whether the question belongs to the supported set.
func (q SecurityQuestion) Valid() bool {
	for _, known := range SecurityQuestions() {
		if q == known {
			return true
		}
	}
	return false
}

// User mirrors the persisted representation in the users table. Username is
// the immutable identity a session token asserts; the two hash fields are
// never serialized in API responses.
type User struct {
	ID                 string
	Username           string
	Email              string
	PasswordHash       string
	SecurityQuestion   SecurityQuestion
	SecurityAnswerHash string
	Role               Role
	Status             AccountStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
	LastLogin          *time.Time
}

// Sanitized returns a copy of the user with secret material cleared.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.SecurityAnswerHash = ""
	return u
}
