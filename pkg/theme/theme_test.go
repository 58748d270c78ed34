package theme

import "testing"

func TestDetectFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		doc  DocumentState
		want Theme
	}{
		{"empty document defaults to light", DocumentState{}, Light},
		{"dark class on root", DocumentState{RootClasses: []string{"app", "dark"}}, Dark},
		{"light class on body", DocumentState{BodyClasses: []string{"light"}}, Light},
		{
			"class beats data attribute",
			DocumentState{RootClasses: []string{"light"}, RootDataTheme: "dark"},
			Light,
		},
		{"data-theme on root", DocumentState{RootDataTheme: "dark"}, Dark},
		{"data-theme on body", DocumentState{BodyDataTheme: "light"}, Light},
		{"unknown data-theme falls through", DocumentState{RootDataTheme: "solarized"}, Light},
		{"meta color-scheme dark", DocumentState{MetaColorScheme: "dark light"}, Dark},
		{"meta color-scheme light only", DocumentState{MetaColorScheme: "light"}, Light},
		{"dark background luminance", DocumentState{BodyBackground: "rgb(10, 10, 10)"}, Dark},
		{"light background luminance", DocumentState{BodyBackground: "rgb(250, 250, 250)"}, Light},
		{"hex background", DocumentState{BodyBackground: "#0a0a0a"}, Dark},
		{
			"background beats OS preference",
			DocumentState{BodyBackground: "rgb(250, 250, 250)", PrefersDark: true},
			Light,
		},
		{"OS preference as last resort", DocumentState{PrefersDark: true}, Dark},
		{"unparseable background falls through", DocumentState{BodyBackground: "transparent", PrefersDark: true}, Dark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.doc); got != tt.want {
				t.Errorf("Detect(%+v) = %s, want %s", tt.doc, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		ok      bool
	}{
		{"rgb(10, 10, 10)", 10, 10, 10, true},
		{"rgb(250,250,250)", 250, 250, 250, true},
		{"rgba(255, 128, 0, 0.5)", 255, 128, 0, true},
		{"#ffffff", 255, 255, 255, true},
		{"#0a0a0a", 10, 10, 10, true},
		{"", 0, 0, 0, false},
		{"transparent", 0, 0, 0, false},
		{"#fff", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b, ok := ParseColor(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && (r != tt.r || g != tt.g || b != tt.b) {
				t.Errorf("ParseColor(%q) = (%d,%d,%d), want (%d,%d,%d)", tt.in, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestLuminanceThreshold(t *testing.T) {
	if l := Luminance(10, 10, 10); l >= luminanceDarkThreshold {
		t.Errorf("near-black luminance %f should be below the threshold", l)
	}
	if l := Luminance(250, 250, 250); l < luminanceDarkThreshold {
		t.Errorf("near-white luminance %f should be above the threshold", l)
	}
}
