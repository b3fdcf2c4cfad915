package models

import "slices"

// ThemeClasses is display-only payload for the presentation layer.
type ThemeClasses struct {
	Bg     string `json:"bg"`
	BgSoft string `json:"bg_soft"`
	Text   string `json:"text"`
	Border string `json:"border"`
	Button string `json:"button"`
	Accent string `json:"accent"`
}

// Theme is a purchasable cosmetic configuration.
type Theme struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Price        int          `json:"price"`
	PrimaryColor string       `json:"primary_color"` // hex, for previews
	Classes      ThemeClasses `json:"classes"`
}

const DefaultThemeID = "default"

// InitialCredits is the balance of a brand new user.
const InitialCredits = 50

// ThemeCatalog is static; the first entry is the default theme.
var ThemeCatalog = []Theme{
	{
		ID:           DefaultThemeID,
		Name:         "Calm Blue",
		Price:        0,
		PrimaryColor: "#3b82f6",
		Classes: ThemeClasses{
			Bg:     "bg-slate-50",
			BgSoft: "bg-blue-50",
			Text:   "text-slate-800",
			Border: "border-blue-200",
			Button: "bg-blue-600 hover:bg-blue-700 text-white",
			Accent: "text-blue-600",
		},
	},
	{
		ID:           "forest",
		Name:         "Peaceful Forest",
		Price:        150,
		PrimaryColor: "#10b981",
		Classes: ThemeClasses{
			Bg:     "bg-stone-50",
			BgSoft: "bg-emerald-50",
			Text:   "text-stone-800",
			Border: "border-emerald-200",
			Button: "bg-emerald-600 hover:bg-emerald-700 text-white",
			Accent: "text-emerald-600",
		},
	},
	{
		ID:           "sunset",
		Name:         "Warm Sunset",
		Price:        300,
		PrimaryColor: "#f97316",
		Classes: ThemeClasses{
			Bg:     "bg-orange-50",
			BgSoft: "bg-amber-100",
			Text:   "text-orange-950",
			Border: "border-orange-200",
			Button: "bg-orange-500 hover:bg-orange-600 text-white",
			Accent: "text-orange-600",
		},
	},
	{
		ID:           "midnight",
		Name:         "Deep Night",
		Price:        500,
		PrimaryColor: "#6366f1",
		Classes: ThemeClasses{
			Bg:     "bg-slate-900",
			BgSoft: "bg-slate-800",
			Text:   "text-slate-100",
			Border: "border-indigo-800",
			Button: "bg-indigo-600 hover:bg-indigo-500 text-white",
			Accent: "text-indigo-400",
		},
	},
}

// InCatalog reports whether id names a theme in ThemeCatalog.
func InCatalog(id string) bool {
	return slices.ContainsFunc(ThemeCatalog, func(t Theme) bool { return t.ID == id })
}
