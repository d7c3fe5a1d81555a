package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/livecss/internal/config"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	sc := NewShortcuts()
	require.NoError(t, sc.Register("btn", "px-4 py-2 rounded hover:bg-blue-600"))
	require.NoError(t, sc.Register("card", "btn shadow"))
	return New(nil, sc)
}

func TestExpand(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{name: "plain", token: "p-4", want: []string{"p-4"}},
		{name: "variant", token: "hover:bg-red", want: []string{"hover|bg-red"}},
		{name: "stacked variants", token: "m:hover:p-4", want: []string{"m|hover|p-4"}},
		{name: "group", token: "hover:(bg-red,p-2)", want: []string{"hover|bg-red", "hover|p-2"}},
		{name: "nested group", token: "m:(p-2,hover:(underline,italic))", want: []string{"m|p-2", "m|hover|underline", "m|hover|italic"}},
		{name: "canonical passes through", token: "m|hover|p-4", want: []string{"m|hover|p-4"}},
		{name: "arbitrary with colon", token: "[mask-type:luminance]", want: []string{"[mask-type:luminance]"}},
		{name: "shortcut", token: "btn", want: []string{"px-4", "py-2", "rounded", "hover|bg-blue-600"}},
		{name: "shortcut under variant", token: "d:btn", want: []string{"d|px-4", "d|py-2", "d|rounded", "d|hover|bg-blue-600"}},
		{name: "nested shortcut", token: "card", want: []string{"px-4", "py-2", "rounded", "hover|bg-blue-600", "shadow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Expand(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_Idempotent(t *testing.T) {
	r := newResolver(t)
	for _, token := range []string{"hover:(bg-red,p-2)", "card", "m:hover:p-4"} {
		first, err := r.Expand(token)
		require.NoError(t, err)
		for _, canonical := range first {
			again, err := r.Expand(canonical)
			require.NoError(t, err)
			assert.Equal(t, []string{canonical}, again)
		}
	}
}

func TestExpand_Errors(t *testing.T) {
	sc := NewShortcuts()
	require.NoError(t, sc.Register("a", "b"))
	require.NoError(t, sc.Register("b", "a"))
	r := New(nil, sc)

	_, err := r.Expand("hover:(bg-red,p-2")
	assert.ErrorIs(t, err, ErrUnbalancedGroup)

	_, err = r.Expand("w-[10px")
	assert.ErrorIs(t, err, ErrUnbalancedGroup)

	_, err = r.Expand("a")
	assert.ErrorIs(t, err, ErrShortcutCycle)
}

func TestResolve(t *testing.T) {
	r := New(nil, nil)

	tests := []struct {
		token string
		want  string
	}{
		{"p-4", `.p-4 { padding: 1rem; }`},
		{"px-0.5", `.px-0\.5 { padding-left: 0.125rem; padding-right: 0.125rem; }`},
		{"-mt-2", `.-mt-2 { margin-top: -0.5rem; }`},
		{"mx-auto", `.mx-auto { margin-left: auto; margin-right: auto; }`},
		{"w-1/2", `.w-1\/2 { width: 50%; }`},
		{"h-screen", `.h-screen { height: 100vh; }`},
		{"hidden", `.hidden { display: none; }`},
		{"bg-red", `.bg-red { background-color: #ef4444; }`},
		{"text-blue-600/50", `.text-blue-600\/50 { color: rgb(37 99 235 / 0.5); }`},
		{"text-lg", `.text-lg { font-size: 1.125rem; line-height: 1.75rem; }`},
		{"text-[13px]", `.text-\[13px\] { font-size: 13px; }`},
		{"bg-[#0af]", `.bg-\[\#0af\] { background-color: #0af; }`},
		{"grid-cols-[1fr_2fr]", `.grid-cols-\[1fr_2fr\] { grid-template-columns: 1fr 2fr; }`},
		{"border", `.border { border-width: 1px; }`},
		{"border-t-2", `.border-t-2 { border-top-width: 2px; }`},
		{"border-gray-200", `.border-gray-200 { border-color: #e5e7eb; }`},
		{"rounded-lg", `.rounded-lg { border-radius: 0.5rem; }`},
		{"opacity-75", `.opacity-75 { opacity: 0.75; }`},
		{"z-10", `.z-10 { z-index: 10; }`},
		{"space-x-2", `.space-x-2 > * + * { margin-left: 0.5rem; }`},
		{"animate-spin", `.animate-spin { animation: spin 1s linear infinite; }`},
		{"[mask-type:luminance]", `.\[mask-type\:luminance\] { mask-type: luminance; }`},
		{"!p-1", `.\!p-1 { padding: 0.25rem !important; }`},
		{"hover|bg-red", `.hover\|bg-red:hover { background-color: #ef4444; }`},
		{"dark|text-white", `@media (prefers-color-scheme: dark) { .dark\|text-white { color: #ffffff; } }`},
		{"m|p-4", `@media (max-width: 768px) { .m\|p-4 { padding: 1rem; } }`},
		{"m|hover|p-4", `@media (max-width: 768px) { .m\|hover\|p-4:hover { padding: 1rem; } }`},
		{"2xl|p-4", ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rules, err := r.Resolve(tt.token)
			if tt.want == "" {
				assert.ErrorIs(t, err, ErrUnknownVariant)
				return
			}
			require.NoError(t, err)
			require.Len(t, rules, 1)
			assert.Equal(t, tt.want, rules[0])
		})
	}
}

func TestResolve_UnknownUtilityHasNoRules(t *testing.T) {
	r := New(nil, nil)
	for _, token := range []string{"foo", "p-x", "bg-nothing-500", "-bg-red", "text"} {
		rules, err := r.Resolve(token)
		assert.NoError(t, err, token)
		assert.Empty(t, rules, token)
	}
}

func TestResolve_UnsafeValue(t *testing.T) {
	r := New(nil, nil)
	_, err := r.Resolve("bg-[red;}body{display:none]")
	assert.ErrorIs(t, err, ErrUnsafeValue)
}

func TestResolve_FollowsConfiguration(t *testing.T) {
	store := config.NewStore(config.Default())
	r := New(store, nil)

	important := true
	require.NoError(t, store.Merge(config.Patch{
		Breakpoints: []config.Breakpoint{{Key: "wide", Query: "(min-width: 1400px)"}},
		Important:   &important,
	}))

	rules, err := r.Resolve("wide|p-2")
	require.NoError(t, err)
	assert.Equal(t, []string{`@media (min-width: 1400px) { .wide\|p-2 { padding: 0.5rem !important; } }`}, rules)

	_, err = r.Resolve("m|p-2")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestShortcuts_Register(t *testing.T) {
	sc := NewShortcuts()

	assert.ErrorIs(t, sc.Register("", "p-4"), ErrInvalidShortcut)
	assert.ErrorIs(t, sc.Register("a:b", "p-4"), ErrInvalidShortcut)
	assert.ErrorIs(t, sc.Register("btn", "   "), ErrInvalidShortcut)

	require.NoError(t, sc.Register("btn", "p-4  m-2"))
	require.NoError(t, sc.Register("alert", "p-2"))
	tokens, ok := sc.Lookup("btn")
	assert.True(t, ok)
	assert.Equal(t, []string{"p-4", "m-2"}, tokens)
	assert.Equal(t, []string{"alert", "btn"}, sc.Names())
}

func TestEscapeClass(t *testing.T) {
	assert.Equal(t, `\32 xl\|p-4`, EscapeClass("2xl|p-4"))
	assert.Equal(t, `-\31 `, EscapeClass("-1"))
	assert.Equal(t, `hover\:x`, EscapeClass("hover:x"))
}
