package domain

import "time"

// LetterStyle is the closed set of letter styles the companion can write in.
type LetterStyle string

const (
	StyleRomantic      LetterStyle = "romantic"
	StyleFunny         LetterStyle = "funny"
	StyleEmotional     LetterStyle = "emotional"
	StyleBollywood     LetterStyle = "bollywood"
	StyleFutureHusband LetterStyle = "future-husband"
	StyleComfort       LetterStyle = "comfort"
)

// ValidLetterStyle reports whether s is one of the known styles.
func ValidLetterStyle(s LetterStyle) bool {
	switch s {
	case StyleRomantic, StyleFunny, StyleEmotional, StyleBollywood, StyleFutureHusband, StyleComfort:
		return true
	}
	return false
}

// Letter is an AI-written letter saved for one identity.
type Letter struct {
	ID        string      `json:"id"`
	Owner     OwnerRef    `json:"userId"`
	Style     LetterStyle `json:"style"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Memory is a saved moment; only counted on the dashboard here.
type Memory struct {
	ID        string    `json:"id"`
	Owner     OwnerRef  `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyMessage is the one generated message for an identity on a given date.
// Date is formatted YYYY-MM-DD.
type DailyMessage struct {
	ID        string    `json:"id"`
	Owner     OwnerRef  `json:"userId"`
	Message   string    `json:"message"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// Secret is the singleton hidden note per identity.
type Secret struct {
	ID      string   `json:"id"`
	Owner   OwnerRef `json:"userId"`
	Content string   `json:"content"`
}

// Visitor tracks visit counts per identity.
type Visitor struct {
	Owner     OwnerRef  `json:"userId"`
	Count     int64     `json:"count"`
	LastVisit time.Time `json:"lastVisit"`
}

// User is a registered identity.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserConfig is the per-identity personalization fed into the prompt builder.
type UserConfig struct {
	PartnerName   string `json:"partnerName"`
	CompanionName string `json:"companionName"`
	Persona       string `json:"persona"`
}

// DefaultUserConfig is used for anonymous sessions and identities that have
// not customized anything yet.
func DefaultUserConfig() UserConfig {
	return UserConfig{
		PartnerName:   "love",
		CompanionName: "Manas",
		Persona:       "warm, playful and reassuring",
	}
}
