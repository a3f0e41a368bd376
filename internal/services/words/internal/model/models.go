package model

import "time"

// AllCategories is the pseudo-category that matches every word.
const AllCategories int64 = 0

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

type GameMode string

const (
	// ModeFlashcards is the swipe game: two guesses, every answer marks the prompt seen.
	ModeFlashcards GameMode = "flashcards"
	// ModeLearn is the tap game: up to three options, only correct guesses mark the prompt seen.
	ModeLearn GameMode = "learn"
)

func (m GameMode) Valid() bool {
	return m == ModeFlashcards || m == ModeLearn
}

type Word struct {
	ID          int64
	Name        string
	Description string
	Image       string
	LanguageID  int64
	CategoryID  int64
	CreatedAt   time.Time
}

type Category struct {
	ID    int64
	Name  string
	Emoji string
}

type Language struct {
	ID     int64
	ISO639 string
	Name   string
	Flag   string
}

type Settings struct {
	Theme       Theme
	LanguageISO string
}

type Subscription struct {
	UserID    string
	Anonymous bool
	Active    bool
}
