package migration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls   []string
	version uint
	err     error
}

func (f *fakeRunner) Up() error         { f.calls = append(f.calls, "up"); f.version = 1; return f.err }
func (f *fakeRunner) Down() error       { f.calls = append(f.calls, "down"); f.version = 0; return f.err }
func (f *fakeRunner) Steps(n int) error { f.calls = append(f.calls, "steps"); return f.err }
func (f *fakeRunner) GoTo(v uint) error {
	f.calls = append(f.calls, "goto")
	f.version = v
	return f.err
}
func (f *fakeRunner) Force(v int) error {
	f.calls = append(f.calls, "force")
	f.version = uint(v)
	return f.err
}
func (f *fakeRunner) Version() (uint, bool, error) { return f.version, false, nil }

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    Command
		wantErr string
	}{
		{[]string{"up"}, Command{Name: "up"}, ""},
		{[]string{"steps", "-2"}, Command{Name: "steps", N: -2}, ""},
		{[]string{"goto", "3"}, Command{Name: "goto", N: 3}, ""},
		{[]string{"force", "1"}, Command{Name: "force", N: 1}, ""},
		{nil, Command{}, "missing command"},
		{[]string{"steps"}, Command{}, "requires a number"},
		{[]string{"steps", "0"}, Command{}, "must not be zero"},
		{[]string{"goto", "-1"}, Command{}, "must not be negative"},
		{[]string{"goto", "x"}, Command{}, "invalid number"},
		{[]string{"drop"}, Command{}, "unknown command"},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.args)
		if tt.wantErr != "" {
			assert.ErrorContains(t, err, tt.wantErr, "args %v", tt.args)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestExecute(t *testing.T) {
	r := &fakeRunner{}
	out, err := Execute(r, Command{Name: "up"})
	require.NoError(t, err)
	assert.Equal(t, "version 1 (dirty=false)", out)

	out, err = Execute(r, Command{Name: "goto", N: 4})
	require.NoError(t, err)
	assert.Equal(t, "version 4 (dirty=false)", out)

	_, err = Execute(r, Command{Name: "version"})
	require.NoError(t, err)
	assert.Equal(t, []string{"up", "goto"}, r.calls)

	r.err = errors.New("dirty database")
	_, err = Execute(r, Command{Name: "down"})
	assert.EqualError(t, err, "dirty database")
}
