package resolver

import (
	"strconv"
	"strings"
)

var namedColors = map[string]string{
	"transparent": "transparent",
	"current":     "currentColor",
	"inherit":     "inherit",
	"white":       "#ffffff",
	"black":       "#000000",
}

// defaultShade is used for a bare hue such as "red".
const defaultShade = "500"

var palette = map[string]map[string]string{
	"gray": {
		"50": "#f9fafb", "100": "#f3f4f6", "200": "#e5e7eb", "300": "#d1d5db", "400": "#9ca3af",
		"500": "#6b7280", "600": "#4b5563", "700": "#374151", "800": "#1f2937", "900": "#111827",
	},
	"red": {
		"50": "#fef2f2", "100": "#fee2e2", "200": "#fecaca", "300": "#fca5a5", "400": "#f87171",
		"500": "#ef4444", "600": "#dc2626", "700": "#b91c1c", "800": "#991b1b", "900": "#7f1d1d",
	},
	"orange": {
		"50": "#fff7ed", "100": "#ffedd5", "200": "#fed7aa", "300": "#fdba74", "400": "#fb923c",
		"500": "#f97316", "600": "#ea580c", "700": "#c2410c", "800": "#9a3412", "900": "#7c2d12",
	},
	"yellow": {
		"50": "#fefce8", "100": "#fef9c3", "200": "#fef08a", "300": "#fde047", "400": "#facc15",
		"500": "#eab308", "600": "#ca8a04", "700": "#a16207", "800": "#854d0e", "900": "#713f12",
	},
	"green": {
		"50": "#f0fdf4", "100": "#dcfce7", "200": "#bbf7d0", "300": "#86efac", "400": "#4ade80",
		"500": "#22c55e", "600": "#16a34a", "700": "#15803d", "800": "#166534", "900": "#14532d",
	},
	"teal": {
		"50": "#f0fdfa", "100": "#ccfbf1", "200": "#99f6e4", "300": "#5eead4", "400": "#2dd4bf",
		"500": "#14b8a6", "600": "#0d9488", "700": "#0f766e", "800": "#115e59", "900": "#134e4a",
	},
	"blue": {
		"50": "#eff6ff", "100": "#dbeafe", "200": "#bfdbfe", "300": "#93c5fd", "400": "#60a5fa",
		"500": "#3b82f6", "600": "#2563eb", "700": "#1d4ed8", "800": "#1e40af", "900": "#1e3a8a",
	},
	"indigo": {
		"50": "#eef2ff", "100": "#e0e7ff", "200": "#c7d2fe", "300": "#a5b4fc", "400": "#818cf8",
		"500": "#6366f1", "600": "#4f46e5", "700": "#4338ca", "800": "#3730a3", "900": "#312e81",
	},
	"purple": {
		"50": "#faf5ff", "100": "#f3e8ff", "200": "#e9d5ff", "300": "#d8b4fe", "400": "#c084fc",
		"500": "#a855f7", "600": "#9333ea", "700": "#7e22ce", "800": "#6b21a8", "900": "#581c87",
	},
	"pink": {
		"50": "#fdf2f8", "100": "#fce7f3", "200": "#fbcfe8", "300": "#f9a8d4", "400": "#f472b6",
		"500": "#ec4899", "600": "#db2777", "700": "#be185d", "800": "#9d174d", "900": "#831843",
	},
}

// color resolves "red", "red-500", "red-500/50", "white" or "[#0af]".
func color(v string) (string, bool) {
	if inner, ok := arbitrary(v); ok {
		return inner, true
	}

	alpha := ""
	if i := strings.LastIndexByte(v, '/'); i >= 0 {
		v, alpha = v[:i], v[i+1:]
	}

	var hex string
	if c, ok := namedColors[v]; ok {
		hex = c
	} else {
		hue, shade, found := strings.Cut(v, "-")
		if !found {
			shade = defaultShade
		}
		shades, ok := palette[hue]
		if !ok {
			return "", false
		}
		if hex, ok = shades[shade]; !ok {
			return "", false
		}
	}

	if alpha == "" {
		return hex, true
	}
	a, err := strconv.Atoi(alpha)
	if err != nil || a < 0 || a > 100 || !strings.HasPrefix(hex, "#") {
		return "", false
	}
	r, g, b, ok := parseHex(hex)
	if !ok {
		return "", false
	}
	return "rgb(" + strconv.Itoa(r) + " " + strconv.Itoa(g) + " " + strconv.Itoa(b) + " / " + fraction(a) + ")", true
}

func parseHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 {
		return 0, 0, 0, false
	}
	n, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff), true
}

// fraction formats a percentage as a 0..1 number: 50 -> "0.5".
func fraction(pct int) string {
	return strconv.FormatFloat(float64(pct)/100, 'f', -1, 64)
}
