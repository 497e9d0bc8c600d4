package zonegen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadSerial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "serial")

	// Missing file is a first run
	require.Equal(t, uint32(0), LoadSerial(path))

	require.NoError(t, os.WriteFile(path, []byte("2025012301"), 0644))
	require.Equal(t, uint32(2025012301), LoadSerial(path))

	// Surrounding whitespace is fine
	require.NoError(t, os.WriteFile(path, []byte("  2025012301\n"), 0644))
	require.Equal(t, uint32(2025012301), LoadSerial(path))

	// Garbage degrades to a first run, never an error
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0644))
	require.Equal(t, uint32(0), LoadSerial(path))
}

func TestCalcSerial(t *testing.T) {
	day := time.Date(2025, 1, 23, 15, 4, 5, 0, time.UTC)
	seed := uint32(2025012300)

	// First run seeds from the date
	require.Equal(t, seed, calcSerialAt(0, day))

	// An old serial moves to today's seed
	require.Equal(t, seed, calcSerialAt(2020012301, day))

	// Chained runs on the same day increase by exactly one
	s := calcSerialAt(seed+5, day)
	require.Equal(t, seed+6, s)
	s = calcSerialAt(s, day)
	require.Equal(t, seed+7, s)

	// Strictly increasing even when the stored value is ahead of the date
	require.Equal(t, uint32(2030010101), calcSerialAt(2030010100, day))

	// The exported entry point is always ahead of its input
	require.Greater(t, CalcSerial(0), uint32(2025000000))
	old := CalcSerial(0)
	require.Equal(t, old+1, CalcSerial(old))
}

func TestSaveSerial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "serial")

	require.NoError(t, SaveSerial(path, 2025012301))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "2025012301", string(data))

	// Round trip
	require.Equal(t, uint32(2025012301), LoadSerial(path))

	// Unwritable location is fatal
	err = SaveSerial(filepath.Join(dir, "missing", "serial"), 1)
	require.Error(t, err)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
}
