// Package theme detects whether a host page is in light or dark mode from a
// snapshot of its document state.
package theme

import (
	"strconv"
	"strings"
)

// Theme is the effective color scheme of a document.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Valid reports whether t is one of the two known themes.
func (t Theme) Valid() bool { return t == Light || t == Dark }

// DocumentState is a snapshot of the host document attributes the detector
// inspects. Host integrations fill in whatever they can observe; zero values
// simply fall through to the next detection step.
type DocumentState struct {
	RootClasses   []string
	BodyClasses   []string
	RootDataTheme string
	BodyDataTheme string

	// MetaColorScheme is the content of a <meta name="color-scheme"> tag.
	MetaColorScheme string

	// BodyBackground is the computed body background color, e.g.
	// "rgb(10, 10, 10)" or "#fafafa".
	BodyBackground string

	// PrefersDark mirrors the OS-level prefers-color-scheme media query.
	PrefersDark bool
}

// luminanceDarkThreshold splits dark from light backgrounds on perceptual
// luminance.
const luminanceDarkThreshold = 0.5

// Detect computes the effective theme via an ordered fallback chain:
// explicit dark/light class, explicit theme attribute, color-scheme meta
// hint, background luminance, OS preference, default light.
func Detect(doc DocumentState) Theme {
	if t, ok := classTheme(doc.RootClasses); ok {
		return t
	}
	if t, ok := classTheme(doc.BodyClasses); ok {
		return t
	}

	for _, attr := range []string{doc.RootDataTheme, doc.BodyDataTheme} {
		if attr == string(Dark) || attr == string(Light) {
			return Theme(attr)
		}
	}

	if doc.MetaColorScheme != "" {
		if strings.Contains(doc.MetaColorScheme, "dark") {
			return Dark
		}
		if strings.Contains(doc.MetaColorScheme, "light") {
			return Light
		}
	}

	if r, g, b, ok := ParseColor(doc.BodyBackground); ok {
		if Luminance(r, g, b) < luminanceDarkThreshold {
			return Dark
		}
		return Light
	}

	if doc.PrefersDark {
		return Dark
	}
	return Light
}

func classTheme(classes []string) (Theme, bool) {
	for _, c := range classes {
		if c == string(Dark) {
			return Dark, true
		}
		if c == string(Light) {
			return Light, true
		}
	}
	return "", false
}

// Luminance returns the perceptual luminance of an RGB color in [0, 1].
func Luminance(r, g, b uint8) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

// ParseColor extracts RGB components from a CSS color value. It understands
// rgb()/rgba() functional notation and 6-digit hex; anything else fails.
func ParseColor(s string) (r, g, b uint8, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, false
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 {
			return 0, 0, 0, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, 0, 0, false
		}
		return uint8(v >> 16), uint8(v >> 8 & 0xff), uint8(v & 0xff), true
	}

	// rgb(10, 10, 10) / rgba(10, 10, 10, 0.5): take the first three numbers.
	nums := extractNumbers(s)
	if len(nums) < 3 {
		return 0, 0, 0, false
	}
	return clampByte(nums[0]), clampByte(nums[1]), clampByte(nums[2]), true
}

func extractNumbers(s string) []int {
	var nums []int
	i := 0
	for i < len(s) {
		if s[i] < '0' || s[i] > '9' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		n, err := strconv.Atoi(s[i:j])
		if err == nil {
			nums = append(nums, n)
		}
		// Skip a fractional part so "0.5" does not contribute twice.
		if j < len(s) && s[j] == '.' {
			j++
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
		}
		i = j
	}
	return nums
}

func clampByte(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
