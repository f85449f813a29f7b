package stats

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/zeebo/errs/v2"
)

// T accumulates the comparison, swap, array access, and allocation counts a
// heap reports, plus wall time for benchmark phases. It satisfies the heap's
// Sink interface. Like the heap it observes, it is single-threaded.
type T struct {
	comparisons int64
	swaps       int64
	accesses    int64
	allocs      int64

	start   time.Time
	elapsed time.Duration

	snaps []Snapshot
}

// Snapshot is the state of the counters at one Snap call.
type Snapshot struct {
	Op          string
	HeapSize    int
	Comparisons int64
	Swaps       int64
	Accesses    int64
	Elapsed     time.Duration
}

func (t *T) Compares(n int) { t.comparisons += int64(n) }
func (t *T) Swaps(n int)    { t.swaps += int64(n) }
func (t *T) Accesses(n int) { t.accesses += int64(n) }
func (t *T) Allocs(n int)   { t.allocs += int64(n) }

func (t *T) Counts() (comparisons, swaps, accesses, allocs int64) {
	return t.comparisons, t.swaps, t.accesses, t.allocs
}

func (t *T) Start() { t.start = time.Now() }
func (t *T) Stop()  { t.elapsed = time.Since(t.start) }

func (t *T) Elapsed() time.Duration { return t.elapsed }

// Reset zeroes the counters and the timer. Snapshots are kept: a benchmark
// resets between phases and exports them all at the end.
func (t *T) Reset() {
	t.comparisons = 0
	t.swaps = 0
	t.accesses = 0
	t.allocs = 0
	t.start = time.Time{}
	t.elapsed = 0
}

// Snap records the current counters and elapsed time under an operation name.
func (t *T) Snap(op string, heapSize int) {
	t.snaps = append(t.snaps, Snapshot{
		Op:          op,
		HeapSize:    heapSize,
		Comparisons: t.comparisons,
		Swaps:       t.swaps,
		Accesses:    t.accesses,
		Elapsed:     t.elapsed,
	})
}

func (t *T) Snapshots() []Snapshot { return t.snaps }

var csvHeader = []string{
	"Operation", "HeapSize", "Comparisons", "Swaps", "ArrayAccesses", "TimeNanos",
}

// WriteCSV emits one row per snapshot, preceded by a header row.
func (t *T) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errs.Wrap(err)
	}
	for _, s := range t.snaps {
		err := cw.Write([]string{
			s.Op,
			strconv.Itoa(s.HeapSize),
			strconv.FormatInt(s.Comparisons, 10),
			strconv.FormatInt(s.Swaps, 10),
			strconv.FormatInt(s.Accesses, 10),
			strconv.FormatInt(s.Elapsed.Nanoseconds(), 10),
		})
		if err != nil {
			return errs.Wrap(err)
		}
	}
	cw.Flush()
	return errs.Wrap(cw.Error())
}
