package registry

import (
	"errors"
	"testing"

	"github.com/praetorian-inc/regcache/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingJournal keeps journal calls in memory.
type recordingJournal struct {
	compiles []types.Entry
	releases []types.Released
	fail     bool
}

func (j *recordingJournal) RecordCompile(e types.Entry) error {
	if j.fail {
		return errors.New("disk full")
	}
	j.compiles = append(j.compiles, e)
	return nil
}

func (j *recordingJournal) RecordRelease(r types.Released) error {
	if j.fail {
		return errors.New("disk full")
	}
	j.releases = append(j.releases, r)
	return nil
}

// staticSource replays a fixed journal.
type staticSource struct {
	live []types.Entry
	max  types.Handle
}

func (s staticSource) Live() ([]types.Entry, error)     { return s.live, nil }
func (s staticSource) MaxHandle() (types.Handle, error) { return s.max, nil }

func TestJournal_RecordsCompileAndRelease(t *testing.T) {
	j := &recordingJournal{}
	r := New(WithJournal(j))

	h, err := r.Compile(`(a)(b)`)
	require.NoError(t, err)
	_, err = r.Compile(`(`)
	require.Error(t, err)
	r.Release(h)
	r.Release(h)

	require.Len(t, j.compiles, 1)
	assert.Equal(t, h, j.compiles[0].Handle)
	assert.Equal(t, `(a)(b)`, j.compiles[0].Pattern)
	assert.Equal(t, 2, j.compiles[0].Groups)

	require.Len(t, j.releases, 1)
	assert.Equal(t, h, j.releases[0].Handle)
}

func TestJournal_FailureDoesNotFailOperation(t *testing.T) {
	r := New(WithJournal(&recordingJournal{fail: true}))

	h, err := r.Compile(`a`)
	require.NoError(t, err)
	assert.True(t, r.MatchCompiled(h, "a"))
	r.Release(h)
	assert.Equal(t, 0, r.Len())
}

func TestRestore(t *testing.T) {
	r := New()

	err := r.Restore(types.Entry{Handle: 5, Pattern: `\d+`, Syntax: "re2"})
	require.NoError(t, err)

	assert.True(t, r.MatchCompiled(5, "123"))
	info, err := r.Info(5)
	require.NoError(t, err)
	assert.Equal(t, "re2", info.Syntax)

	// Counter moved past the restored handle
	h, err := r.Compile(`x`)
	require.NoError(t, err)
	assert.Equal(t, types.Handle(6), h)

	err = r.Restore(types.Entry{Handle: 5, Pattern: `x`})
	assert.ErrorIs(t, err, ErrHandleLive)

	err = r.Restore(types.Entry{Handle: 9, Pattern: `(`})
	assert.ErrorIs(t, err, ErrCompile)

	err = r.Restore(types.Entry{Handle: types.InvalidHandle, Pattern: `x`})
	assert.Error(t, err)
}

func TestRestoreFrom(t *testing.T) {
	src := staticSource{
		live: []types.Entry{
			{Handle: 0, Pattern: `a`},
			{Handle: 3, Pattern: `(`},
			{Handle: 4, Pattern: `(\d)(\d)`},
		},
		max: 7, // handles 5..7 were released before the restart
	}

	r := New()
	n, err := r.RestoreFrom(src)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, ErrCompile)

	assert.True(t, r.MatchCompiled(0, "a"))
	got, err := r.FindAll(4, "12")
	require.NoError(t, err)
	assert.Equal(t, []string{"1\x012"}, got)

	h, err := r.Compile(`z`)
	require.NoError(t, err)
	assert.Equal(t, types.Handle(8), h)
}

func TestRestoreFrom_EmptyJournal(t *testing.T) {
	r := New()
	n, err := r.RestoreFrom(staticSource{max: types.InvalidHandle})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	h, err := r.Compile(`z`)
	require.NoError(t, err)
	assert.Equal(t, types.Handle(0), h)
}

func TestReserve_NeverMovesBackwards(t *testing.T) {
	r := New(WithFirstHandle(10))
	r.Reserve(3)
	h, err := r.Compile(`a`)
	require.NoError(t, err)
	assert.Equal(t, types.Handle(10), h)
}

func TestRestore_ReleasedHandleStaysUnknown(t *testing.T) {
	r := New()
	h, err := r.Compile(`a`)
	require.NoError(t, err)
	r.Release(h)

	err = r.Restore(types.Entry{Handle: h, Pattern: `b`})
	require.ErrorIs(t, err, ErrUnknownHandle)

	_, err = r.MatchCompiledE(h, "b")
	require.ErrorIs(t, err, ErrUnknownHandle)
	assert.Equal(t, 0, r.Len())
}

func TestRestore_ClosedHandleStaysUnknown(t *testing.T) {
	r := New()
	h, err := r.Compile(`a`)
	require.NoError(t, err)
	r.Close()

	err = r.Restore(types.Entry{Handle: h, Pattern: `a`})
	require.ErrorIs(t, err, ErrUnknownHandle)
	assert.False(t, r.MatchCompiled(h, "a"))
}

func TestRestoreFrom_SkipsReleasedHandle(t *testing.T) {
	r := New()
	h, err := r.Compile(`a`)
	require.NoError(t, err)
	r.Release(h)

	src := staticSource{
		live: []types.Entry{{Handle: h, Pattern: `b`}, {Handle: h + 1, Pattern: `c`}},
		max:  h + 1,
	}
	n, err := r.RestoreFrom(src)
	require.ErrorIs(t, err, ErrUnknownHandle)
	assert.Equal(t, 1, n)
	assert.False(t, r.MatchCompiled(h, "b"))
	assert.True(t, r.MatchCompiled(h+1, "c"))
}
