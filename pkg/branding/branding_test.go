package branding

import (
	"net/url"
	"testing"
)

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()

	if cfg.WidgetTitle != DefaultWidgetTitle {
		t.Errorf("widget title default: got %q", cfg.WidgetTitle)
	}
	if cfg.Position != PositionBottomRight {
		t.Errorf("position default: got %q", cfg.Position)
	}
	if cfg.OffsetX != DefaultOffsetX || cfg.OffsetY != DefaultOffsetY {
		t.Errorf("offset defaults: got (%d,%d)", cfg.OffsetX, cfg.OffsetY)
	}
	if cfg.AvatarURL == "" {
		t.Error("avatar default missing")
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		WidgetTitle: "Visit Dubai",
		Position:    PositionBottomLeft,
		OffsetX:     48,
	}.WithDefaults()

	if cfg.WidgetTitle != "Visit Dubai" {
		t.Errorf("explicit title overwritten: %q", cfg.WidgetTitle)
	}
	if cfg.Position != PositionBottomLeft {
		t.Errorf("explicit position overwritten: %q", cfg.Position)
	}
	if cfg.OffsetX != 48 {
		t.Errorf("explicit offset overwritten: %d", cfg.OffsetX)
	}
	// Unknown positions normalize to the default corner.
	if got := (Config{Position: "top-center"}).WithDefaults().Position; got != PositionBottomRight {
		t.Errorf("unknown position should normalize, got %q", got)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	cfg := Config{
		PrimaryColor:     "#D4AF37",
		WidgetTitle:      "Visit Dubai",
		WelcomeMessage:   "Welcome! Where to?",
		InputPlaceholder: "Ask me anything...",
		FontFamily:       "Roboto, sans-serif",
		AvatarURL:        "https://example.com/avatar.png",
	}

	decoded := FromValues(cfg.Values())

	if decoded != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, cfg)
	}
}

func TestValuesOmitsAbsentFields(t *testing.T) {
	values := Config{WidgetTitle: "Lumine"}.Values()
	if len(values) != 1 {
		t.Errorf("expected only set fields encoded, got %v", values)
	}
}

func TestFromValuesSurvivesURLEncoding(t *testing.T) {
	cfg := Config{WelcomeMessage: "Hi there! ¿Dónde vamos?", FontFamily: "Playfair Display, serif"}

	raw := cfg.Values().Encode()
	parsed, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("failed to parse encoded query: %v", err)
	}

	decoded := FromValues(parsed)
	if decoded.WelcomeMessage != cfg.WelcomeMessage {
		t.Errorf("welcome message corrupted: %q", decoded.WelcomeMessage)
	}
	if decoded.FontFamily != cfg.FontFamily {
		t.Errorf("font family corrupted: %q", decoded.FontFamily)
	}
}
