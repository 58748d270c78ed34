// Package branding holds the embedding configuration a host page supplies to
// customize the widget, and its URL query-parameter wire form.
package branding

import (
	"net/url"
	"strconv"
)

// Positions for the launcher and widget container.
const (
	PositionBottomRight = "bottom-right"
	PositionBottomLeft  = "bottom-left"
)

// Built-in defaults, applied for every absent value.
const (
	DefaultWidgetTitle      = "Lumine"
	DefaultSubtitle         = "AI Concierge"
	DefaultLauncherText     = "Speak to Lumine"
	DefaultInputPlaceholder = "Type your message..."
	DefaultPosition         = PositionBottomRight
	DefaultOffsetX          = 24
	DefaultOffsetY          = 24
	DefaultAvatarURL        = "https://api.dicebear.com/7.x/personas/svg?seed=Lumine"
)

// Config is the full embedding configuration. All fields are optional; zero
// values fall back to the defaults above.
type Config struct {
	// Widget endpoint override
	WidgetURL string `yaml:"widget_url,omitempty"`

	// Colors
	PrimaryColor     string `yaml:"primary_color,omitempty"`
	AccentColor      string `yaml:"accent_color,omitempty"`
	HeaderBackground string `yaml:"header_background,omitempty"`
	SurfaceColor     string `yaml:"surface_color,omitempty"`
	TextColor        string `yaml:"text_color,omitempty"`

	// Typography & layout
	FontFamily   string `yaml:"font_family,omitempty"`
	BorderRadius string `yaml:"border_radius,omitempty"`
	Position     string `yaml:"position,omitempty"`
	OffsetX      int    `yaml:"offset_x,omitempty"`
	OffsetY      int    `yaml:"offset_y,omitempty"`

	// Text & labels
	WidgetTitle      string `yaml:"widget_title,omitempty"`
	Subtitle         string `yaml:"subtitle,omitempty"`
	LauncherText     string `yaml:"launcher_text,omitempty"`
	WelcomeMessage   string `yaml:"welcome_message,omitempty"`
	InputPlaceholder string `yaml:"input_placeholder,omitempty"`

	// Avatar & logo
	AvatarURL string `yaml:"avatar_url,omitempty"`
	LogoURL   string `yaml:"logo_url,omitempty"`
}

// WithDefaults returns a copy of c with every absent value replaced by its
// built-in default.
func (c Config) WithDefaults() Config {
	if c.WidgetTitle == "" {
		c.WidgetTitle = DefaultWidgetTitle
	}
	if c.Subtitle == "" {
		c.Subtitle = DefaultSubtitle
	}
	if c.LauncherText == "" {
		c.LauncherText = DefaultLauncherText
	}
	if c.InputPlaceholder == "" {
		c.InputPlaceholder = DefaultInputPlaceholder
	}
	if c.Position != PositionBottomLeft {
		c.Position = DefaultPosition
	}
	if c.OffsetX == 0 {
		c.OffsetX = DefaultOffsetX
	}
	if c.OffsetY == 0 {
		c.OffsetY = DefaultOffsetY
	}
	if c.AvatarURL == "" {
		c.AvatarURL = DefaultAvatarURL
	}
	return c
}

// queryKeys maps Config string fields to their query-parameter names. Offsets
// and the widget URL never cross the boundary: the host applies them to its
// own DOM.
var queryFields = []struct {
	key string
	get func(*Config) *string
}{
	{"primaryColor", func(c *Config) *string { return &c.PrimaryColor }},
	{"accentColor", func(c *Config) *string { return &c.AccentColor }},
	{"headerBackground", func(c *Config) *string { return &c.HeaderBackground }},
	{"surfaceColor", func(c *Config) *string { return &c.SurfaceColor }},
	{"textColor", func(c *Config) *string { return &c.TextColor }},
	{"fontFamily", func(c *Config) *string { return &c.FontFamily }},
	{"borderRadius", func(c *Config) *string { return &c.BorderRadius }},
	{"widgetTitle", func(c *Config) *string { return &c.WidgetTitle }},
	{"subtitle", func(c *Config) *string { return &c.Subtitle }},
	{"launcherText", func(c *Config) *string { return &c.LauncherText }},
	{"welcomeMessage", func(c *Config) *string { return &c.WelcomeMessage }},
	{"inputPlaceholder", func(c *Config) *string { return &c.InputPlaceholder }},
	{"avatarUrl", func(c *Config) *string { return &c.AvatarURL }},
	{"logoUrl", func(c *Config) *string { return &c.LogoURL }},
}

// Values encodes the set fields as URL query parameters for the widget URL.
func (c Config) Values() url.Values {
	values := url.Values{}
	for _, f := range queryFields {
		if v := *f.get(&c); v != "" {
			values.Set(f.key, v)
		}
	}
	return values
}

// FromValues decodes a Config from widget URL query parameters.
func FromValues(values url.Values) Config {
	var c Config
	for _, f := range queryFields {
		if v := values.Get(f.key); v != "" {
			*f.get(&c) = v
		}
	}
	return c
}

// OffsetStyle returns the pixel offset pair as CSS values, for the loader
// script template.
func (c Config) OffsetStyle() (x, y string) {
	return strconv.Itoa(c.OffsetX) + "px", strconv.Itoa(c.OffsetY) + "px"
}
