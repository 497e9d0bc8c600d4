package zonegen

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dchest/safefile"
)

// LoadSerial reads the previously persisted serial counter. A missing or
// unparsable file means a first run and yields 0, never an error.
func LoadSerial(path string) uint32 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	serial, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(serial)
}

// CalcSerial computes the next serial from the previous one: at least one
// more than before, and at least today's date seed in YYYYMMDD00 form. This
// keeps the serial strictly increasing across same-day runs and makes the
// date visible on the first run of a new day.
func CalcSerial(old uint32) uint32 {
	return calcSerialAt(old, time.Now().UTC())
}

func calcSerialAt(old uint32, now time.Time) uint32 {
	seed := uint32(now.Year())*1000000 + uint32(now.Month())*10000 + uint32(now.Day())*100
	if old+1 > seed {
		return old + 1
	}
	return seed
}

// SaveSerial persists the serial counter. The write is atomic so a failure
// can never leave a truncated counter behind, and any failure is fatal since
// silently keeping the old value risks serial regression on the next run.
func SaveSerial(path string, serial uint32) error {
	if err := safefile.WriteFile(path, []byte(strconv.FormatUint(uint64(serial), 10)), 0644); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}
