package safe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	errBad := errors.New("bad token")

	tests := []struct {
		name    string
		fn      func() error
		wantOK  bool
		wantErr error
		isPanic bool
	}{
		{name: "success", fn: func() error { return nil }, wantOK: true},
		{name: "error", fn: func() error { return errBad }, wantErr: errBad},
		{name: "panic", fn: func() error { panic("boom") }, isPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Failure
			ok := Run(func(f Failure) { got = append(got, f) }, "processElement", "div#a", tt.fn)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "processElement", got[0].Op)
			assert.Equal(t, "div#a", got[0].Subject)
			if tt.wantErr != nil {
				assert.ErrorIs(t, got[0], tt.wantErr)
			}
			if tt.isPanic {
				var pe *PanicError
				require.ErrorAs(t, got[0].Err, &pe)
				assert.Equal(t, "boom", pe.Value)
				assert.NotEmpty(t, got[0].Stack)
			}
		})
	}
}

func TestRun_NilReporter(t *testing.T) {
	assert.NotPanics(t, func() {
		Run(nil, "op", "", func() error { panic("ignored") })
	})
}

func TestFailure_Error(t *testing.T) {
	f := Failure{Op: "resolve", Subject: "p-4", Err: errors.New("nope")}
	assert.Equal(t, "resolve p-4: nope", f.Error())

	f.Subject = ""
	assert.Equal(t, "resolve: nope", f.Error())
}
