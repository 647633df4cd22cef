package store

import "time"

type Theme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

var DefaultTheme = Theme{
	Primary:    "#1F2937",
	Secondary:  "#4B5563",
	Accent:     "#F59E0B",
	Background: "#FFFFFF",
	Text:       "#111827",
}

// withDefaults fills blank colours from DefaultTheme.
func (t Theme) withDefaults() Theme {
	fill := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Theme{
		Primary:    fill(t.Primary, DefaultTheme.Primary),
		Secondary:  fill(t.Secondary, DefaultTheme.Secondary),
		Accent:     fill(t.Accent, DefaultTheme.Accent),
		Background: fill(t.Background, DefaultTheme.Background),
		Text:       fill(t.Text, DefaultTheme.Text),
	}
}

type Store struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Theme       Theme      `json:"theme"`
	WhatsApp    string     `json:"whatsapp"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type NewStoreInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Theme       Theme  `json:"theme"`
	WhatsApp    string `json:"whatsapp"`
	Active      bool   `json:"active"`
}

type UpdateStoreInput struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Theme       *Theme  `json:"theme,omitempty"`
	WhatsApp    *string `json:"whatsapp,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

func (in UpdateStoreInput) hasAnyField() bool {
	return in.Name != nil ||
		in.Description != nil ||
		in.Theme != nil ||
		in.WhatsApp != nil ||
		in.Active != nil
}
