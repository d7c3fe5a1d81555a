package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		width  int
		height int
		want   bool
	}{
		{"max-width inside", "(max-width: 768px)", 500, 800, true},
		{"max-width boundary", "(max-width: 768px)", 768, 800, true},
		{"max-width outside", "(max-width: 768px)", 769, 800, false},
		{"range inside", "(min-width: 769px) and (max-width: 1024px)", 900, 800, true},
		{"range below", "(min-width: 769px) and (max-width: 1024px)", 700, 800, false},
		{"screen type", "screen and (min-width: 1025px)", 1280, 800, true},
		{"print never matches", "print", 1280, 800, false},
		{"only screen", "only screen and (max-width: 600px)", 320, 640, true},
		{"not negates", "not all and (max-width: 600px)", 320, 640, false},
		{"comma disjunction", "(max-width: 100px), (min-width: 1000px)", 1200, 640, true},
		{"em units", "(min-width: 48em)", 768, 640, true},
		{"portrait", "(orientation: portrait)", 320, 640, true},
		{"landscape", "(orientation: landscape)", 320, 640, false},
		{"unknown feature", "(hover: hover)", 320, 640, false},
		{"garbage", "((", 320, 640, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.width, tt.height)
			assert.Equal(t, tt.want, v.Matches(tt.query))
		})
	}
}

func TestParseQuery_Errors(t *testing.T) {
	for _, q := range []string{"", "(min-width: 10vw)", "(min-width 10px)", "screen and", "(max-width: 10px) or (x)"} {
		t.Run(q, func(t *testing.T) {
			_, err := ParseQuery(q)
			require.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestColorScheme(t *testing.T) {
	v := New(800, 600, WithColorScheme("dark"))
	assert.True(t, v.Matches("(prefers-color-scheme: dark)"))

	v.SetColorScheme("light")
	assert.False(t, v.Matches("(prefers-color-scheme: dark)"))
}

func TestResizeSignals(t *testing.T) {
	v := New(800, 600)

	var sized, resized int
	stop, err := v.ObserveSize(func() { sized++ })
	require.NoError(t, err)
	v.OnResize(func() { resized++ })

	v.Resize(1024, 600)
	v.Resize(1024, 600)
	assert.Equal(t, 1, sized, "size observers only fire on change")
	assert.Equal(t, 2, resized)

	stop()
	v.Resize(320, 600)
	assert.Equal(t, 1, sized)
	assert.Equal(t, 320, v.Width())
}

func TestObserveSize_Unsupported(t *testing.T) {
	v := New(800, 600, WithSizeObservation(false))

	_, err := v.ObserveSize(func() {})

	require.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, v.SupportsSizeObservation())
}
