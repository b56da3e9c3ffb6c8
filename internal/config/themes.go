package config

// GetThemes returns the built-in color themes, keyed by name.
func GetThemes() map[string]Theme {
	return map[string]Theme{
		"nord": DefaultConfig().Theme,
		"dracula": {
			TextPrimary:   "#F8F8F2",
			TextSecondary: "#BD93F9",
			TextFaint:     "#6272A4",
			Accent:        "#8BE9FD",
			Success:       "#50FA7B",
			Error:         "#FF5555",
			Highlight:     "#FFB86C",
			Warning:       "#F1FA8C",
			BgPrimary:     "#282A36",
			BgSecondary:   "#343746",
			CardBg:        "#44475A",
		},
		"gruvbox": {
			TextPrimary:   "#EBDBB2",
			TextSecondary: "#83A598",
			TextFaint:     "#665C54",
			Accent:        "#FABD2F",
			Success:       "#B8BB26",
			Error:         "#FB4934",
			Highlight:     "#8EC07C",
			Warning:       "#FE8019",
			BgPrimary:     "#282828",
			BgSecondary:   "#3C3836",
			CardBg:        "#504945",
		},
		"light": {
			TextPrimary:   "#2E3440",
			TextSecondary: "#5E81AC",
			TextFaint:     "#9099AB",
			Accent:        "#0F4C81",
			Success:       "#2E7D32",
			Error:         "#C62828",
			Highlight:     "#00695C",
			Warning:       "#EF6C00",
			BgPrimary:     "#ECEFF4",
			BgSecondary:   "#E5E9F0",
			CardBg:        "#D8DEE9",
		},
	}
}
