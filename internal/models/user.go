package models

import "time"

// MaxLives is the cap on the consumable lives resource.
const MaxLives = 5

type User struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	Username          string     `json:"username"`
	Password          string     `json:"-"`
	Role              string     `json:"role"`
	ProfilePicture    string     `json:"profile_picture,omitempty"`
	Coins             int        `json:"coins"`
	Lives             int        `json:"lives"`
	LifeRegenStart    *time.Time `json:"life_regen_start,omitempty"`
	AccountLevel      int        `json:"account_level"`
	CurrentExp        float64    `json:"current_exp"`
	PreferredLanguage string     `json:"preferred_language"`
	LessonLanguage    string     `json:"lesson_language,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Lessons are the target languages a user can study.
var Lessons = []string{"tagalog", "waray", "cebuano"}

// ValidLesson reports whether lesson names one of the offered target languages.
func ValidLesson(lesson string) bool {
	for _, l := range Lessons {
		if lesson == l {
			return true
		}
	}
	return false
}

// ValidLanguage reports whether lang is a language the app can display text in.
// English is a display language but not a lesson.
func ValidLanguage(lang string) bool {
	return lang == "english" || ValidLesson(lang)
}
