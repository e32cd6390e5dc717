package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weekdays lists the keys of SettingsRecord.BusinessHours in display order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayHours is the opening window for one weekday, in 24h "HH:MM".
type DayHours struct {
	Enabled bool   `json:"enabled"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

// ResponseTemplates are the canned replies for one language.
type ResponseTemplates struct {
	Greeting   string `json:"greeting"`
	Fallback   string `json:"fallback"`
	OutOfHours string `json:"outOfHours"`
	Handoff    string `json:"handoff"`
}

// SettingsRecord configures the FAQ assistant. The authentication core only
// materializes it; matching and reply logic live elsewhere.
type SettingsRecord struct {
	BusinessHours       map[string]DayHours          `json:"businessHours"`
	AIProvider          string                       `json:"aiProvider"`
	ConfidenceThreshold float64                      `json:"confidenceThreshold"`
	SimilarityThreshold float64                      `json:"similarityThreshold"`
	Templates           map[string]ResponseTemplates `json:"responseTemplates"`
	UpdatedBy           string                       `json:"updatedBy"`
	UpdatedAt           time.Time                    `json:"updatedAt"`
}

// DefaultSettings returns a fully populated settings record: every weekday
// enabled, default thresholds, templates in English and Malay.
func DefaultSettings(now time.Time) *SettingsRecord {
	hours := make(map[string]DayHours, len(Weekdays))
	for _, d := range Weekdays {
		hours[d] = DayHours{Enabled: true, Open: "09:00", Close: "18:00"}
	}

	return &SettingsRecord{
		BusinessHours:       hours,
		AIProvider:          "local",
		ConfidenceThreshold: 0.7,
		SimilarityThreshold: 0.6,
		Templates: map[string]ResponseTemplates{
			"en": {
				Greeting:   "Hello! How can we help you with your stay?",
				Fallback:   "Sorry, I couldn't find an answer to that. A staff member will get back to you shortly.",
				OutOfHours: "Thanks for your message! We're currently closed and will reply during business hours.",
				Handoff:    "Let me connect you with a member of our team.",
			},
			"ms": {
				Greeting:   "Helo! Bagaimana kami boleh membantu penginapan anda?",
				Fallback:   "Maaf, saya tidak menemui jawapan untuk soalan itu. Kakitangan kami akan menghubungi anda sebentar lagi.",
				OutOfHours: "Terima kasih atas mesej anda! Kami kini ditutup dan akan membalas semasa waktu perniagaan.",
				Handoff:    "Saya akan menghubungkan anda dengan ahli pasukan kami.",
			},
		},
		UpdatedBy: SystemActor,
		UpdatedAt: now,
	}
}

// Validate checks the structure downstream consumers assume.
func (s *SettingsRecord) Validate() error {
	for _, d := range Weekdays {
		if _, ok := s.BusinessHours[d]; !ok {
			return fmt.Errorf("business hours missing %s", d)
		}
	}
	if strings.TrimSpace(s.AIProvider) == "" {
		return errors.New("missing ai provider")
	}
	if s.ConfidenceThreshold < 0 || s.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %v out of range", s.ConfidenceThreshold)
	}
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold %v out of range", s.SimilarityThreshold)
	}
	if len(s.Templates) < 2 {
		return errors.New("templates for at least two languages are required")
	}
	for lang, tpl := range s.Templates {
		if tpl.Greeting == "" || tpl.Fallback == "" {
			return fmt.Errorf("templates for %q are incomplete", lang)
		}
	}
	return nil
}
