package config

// ColorScheme defines the colors used by styled CLI output
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome", "wave")
	Preset string `yaml:"preset" json:"preset"`

	// Primary accent color (headers, ids)
	Accent string `yaml:"accent" json:"accent"`

	// Text colors
	Title  string `yaml:"title" json:"title"`
	Subtle string `yaml:"subtle" json:"subtle"` // Muted text, unchanged dates
	Normal string `yaml:"normal" json:"normal"`

	// Schedule colors
	Moved  string `yaml:"moved" json:"moved"`   // Dates changed by propagation
	Locked string `yaml:"locked" json:"locked"` // Locked badge
	Border string `yaml:"border" json:"border"`

	// Message colors
	Success string `yaml:"success" json:"success"`
	Warning string `yaml:"warning" json:"warning"`
	Error   string `yaml:"error" json:"error"`
}

// DefaultColorScheme returns the default color scheme (purple theme)
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		Preset:  "default",
		Accent:  "#874BFD",
		Title:   "#D75FD7",
		Subtle:  "#585858",
		Normal:  "#D0D0D0",
		Moved:   "#5F87D7",
		Locked:  "#FFD700",
		Border:  "#5F87D7",
		Success: "#5FD75F",
		Warning: "#FFD700",
		Error:   "#FF0000",
	}
}

// MonochromeColorScheme returns a black and white color scheme
func MonochromeColorScheme() ColorScheme {
	return ColorScheme{
		Preset:  "monochrome",
		Accent:  "#FFFFFF",
		Title:   "#FFFFFF",
		Subtle:  "#585858",
		Normal:  "#D0D0D0",
		Moved:   "#FFFFFF",
		Locked:  "#FFFFFF",
		Border:  "#FFFFFF",
		Success: "#FFFFFF",
		Warning: "#FFFFFF",
		Error:   "#FFFFFF",
	}
}

// WaveColorScheme returns the Kanagawa Wave color scheme
func WaveColorScheme() ColorScheme {
	return ColorScheme{
		Preset:  "wave",
		Accent:  "#957FB8",
		Title:   "#7E9CD8",
		Subtle:  "#727169",
		Normal:  "#DCD7BA",
		Moved:   "#7FB4CA",
		Locked:  "#FF9E3B",
		Border:  "#54546D",
		Success: "#98BB6C",
		Warning: "#FF9E3B",
		Error:   "#E82424",
	}
}

// GetPreset returns a preset color scheme by name, falling back to the default
func GetPreset(name string) ColorScheme {
	switch name {
	case "monochrome":
		return MonochromeColorScheme()
	case "wave":
		return WaveColorScheme()
	default:
		return DefaultColorScheme()
	}
}

// ApplyDefaults fills in missing color values from the selected preset
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	if c.Preset == "" {
		c.Preset = preset.Preset
	}

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Accent, preset.Accent)
	fill(&c.Title, preset.Title)
	fill(&c.Subtle, preset.Subtle)
	fill(&c.Normal, preset.Normal)
	fill(&c.Moved, preset.Moved)
	fill(&c.Locked, preset.Locked)
	fill(&c.Border, preset.Border)
	fill(&c.Success, preset.Success)
	fill(&c.Warning, preset.Warning)
	fill(&c.Error, preset.Error)
}

// MergeFrom overrides colors with the non-empty values of other
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&c.Preset, other.Preset)
	merge(&c.Accent, other.Accent)
	merge(&c.Title, other.Title)
	merge(&c.Subtle, other.Subtle)
	merge(&c.Normal, other.Normal)
	merge(&c.Moved, other.Moved)
	merge(&c.Locked, other.Locked)
	merge(&c.Border, other.Border)
	merge(&c.Success, other.Success)
	merge(&c.Warning, other.Warning)
	merge(&c.Error, other.Error)
}
