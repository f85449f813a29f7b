// Command heapbench drives insert, extract-min, decrease-key, merge, and
// bulk build across a ladder of heap sizes, reporting wall time and the
// comparison/swap counters the heap emits. Snapshots can be exported as CSV
// and the insert scaling curve as a PNG.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/zeebo/errs/v2"
	"github.com/zeebo/mwc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/idxheap/idxheap/minheap"
	"github.com/idxheap/idxheap/stats"
)

var (
	sizesFlag = kingpin.Flag("sizes", "comma separated heap sizes to benchmark").
			Default("100,1000,10000,100000").String()
	seed = kingpin.Flag("seed", "rng seed, 0 picks a random one").
		Default("42").Uint64()
	csvPath = kingpin.Flag("csv", "write per-operation counter snapshots to this file").
		String()
	plotPath = kingpin.Flag("plot", "write the insert scaling curve to this png file").
			String()
	decOps = kingpin.Flag("decrease-ops", "cap on decrease-key operations per size").
		Default("1000").Int()
)

type row struct {
	op          string
	n           int
	ops         int
	elapsed     time.Duration
	comparisons int64
	swaps       int64
}

func main() {
	kingpin.Parse()

	sizes, err := parseSizes(*sizesFlag)
	if err != nil {
		kingpin.Fatalf("bad --sizes: %v", err)
	}

	fmt.Printf("heapbench: seed=%d sizes=%v\n", *seed, sizes)

	st := new(stats.T)
	var rows []row
	for _, n := range sizes {
		rows = append(rows,
			benchInsert(st, n),
			benchExtractMin(st, n),
			benchDecreaseKey(st, n),
			benchMerge(st, n),
			benchBuild(st, n),
		)
	}

	render(rows)

	if *csvPath != "" {
		if err := writeCSV(st, *csvPath); err != nil {
			kingpin.Fatalf("csv export: %v", err)
		}
		fmt.Printf("snapshots written to %s\n", *csvPath)
	}
	if *plotPath != "" {
		if err := writePlot(rows, *plotPath); err != nil {
			kingpin.Fatalf("plot export: %v", err)
		}
		fmt.Printf("scaling plot written to %s\n", *plotPath)
	}
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errs.Wrap(err)
		}
		if n < 2 {
			return nil, errs.Errorf("size must be at least 2: %d", n)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func newRNG() mwc.T {
	if *seed == 0 {
		return *mwc.Rand()
	}
	return *mwc.New(*seed, *seed|1)
}

// uniqueValues draws n distinct values below 100n, deduping with a bitmap
// since the draw range is dense at the sizes benchmarked here.
func uniqueValues(rng *mwc.T, n int) []int64 {
	seen := roaring.New()
	out := make([]int64, 0, n)
	for len(out) < n {
		v := uint32(rng.Uint64() % uint64(100*n+1))
		if seen.CheckedAdd(v) {
			out = append(out, int64(v))
		}
	}
	return out
}

func benchInsert(st *stats.T, n int) row {
	rng := newRNG()
	vals := uniqueValues(&rng, n)

	h, err := minheap.New(n, st)
	if err != nil {
		kingpin.Fatalf("insert: %v", err)
	}

	st.Reset()
	st.Start()
	for _, v := range vals {
		if err := h.Insert(v); err != nil {
			kingpin.Fatalf("insert: %v", err)
		}
	}
	st.Stop()
	st.Snap("insert", h.Len())

	return snapRow("insert", n, n, st)
}

func benchExtractMin(st *stats.T, n int) row {
	rng := newRNG()
	h, err := minheap.Build(uniqueValues(&rng, n), st)
	if err != nil {
		kingpin.Fatalf("extract-min: %v", err)
	}

	st.Reset()
	st.Start()
	for !h.Empty() {
		if _, err := h.ExtractMin(); err != nil {
			kingpin.Fatalf("extract-min: %v", err)
		}
	}
	st.Stop()
	st.Snap("extract-min", 0)

	return snapRow("extract-min", n, n, st)
}

func benchDecreaseKey(st *stats.T, n int) row {
	rng := newRNG()
	vals := make([]int64, n)
	for i := range vals {
		vals[i] = int64(i) * 10
	}
	h, err := minheap.Build(vals, st)
	if err != nil {
		kingpin.Fatalf("decrease-key: %v", err)
	}

	attempts := min(n/2, *decOps)
	half := uint64(n / 2)

	st.Reset()
	st.Start()
	done := 0
	for i := 0; i < attempts; i++ {
		from := int64(rng.Uint64()%half+half) * 10
		to := from - int64(rng.Uint64()%uint64(from)) - 1
		if !h.Contains(from) || h.Contains(to) || to < 0 {
			continue
		}
		if err := h.DecreaseKey(from, to); err != nil {
			kingpin.Fatalf("decrease-key: %v", err)
		}
		done++
	}
	st.Stop()
	st.Snap("decrease-key", h.Len())

	return snapRow("decrease-key", n, done, st)
}

func benchMerge(st *stats.T, n int) row {
	rng := newRNG()
	vals := uniqueValues(&rng, n)

	h1, err := minheap.Build(vals[:n/2], st)
	if err != nil {
		kingpin.Fatalf("merge: %v", err)
	}
	h2, err := minheap.Build(vals[n/2:], nil)
	if err != nil {
		kingpin.Fatalf("merge: %v", err)
	}

	st.Reset()
	st.Start()
	merged, err := h1.Merge(h2)
	if err != nil {
		kingpin.Fatalf("merge: %v", err)
	}
	st.Stop()
	st.Snap("merge", merged.Len())

	return snapRow("merge", n, merged.Len(), st)
}

func benchBuild(st *stats.T, n int) row {
	rng := newRNG()
	vals := uniqueValues(&rng, n)

	st.Reset()
	st.Start()
	h, err := minheap.Build(vals, st)
	if err != nil {
		kingpin.Fatalf("build: %v", err)
	}
	st.Stop()
	st.Snap("build", h.Len())

	return snapRow("build", n, n, st)
}

func snapRow(op string, n, ops int, st *stats.T) row {
	comparisons, swaps, _, _ := st.Counts()
	return row{
		op:          op,
		n:           n,
		ops:         ops,
		elapsed:     st.Elapsed(),
		comparisons: comparisons,
		swaps:       swaps,
	}
}

func render(rows []row) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"OP", "N", "OPS", "TIME", "COMPARISONS", "SWAPS", "NS/OP"})
	for _, r := range rows {
		nsop := "-"
		if r.ops > 0 {
			nsop = strconv.FormatInt(r.elapsed.Nanoseconds()/int64(r.ops), 10)
		}
		table.Append([]string{
			r.op,
			strconv.Itoa(r.n),
			strconv.Itoa(r.ops),
			r.elapsed.Round(time.Microsecond).String(),
			strconv.FormatInt(r.comparisons, 10),
			strconv.FormatInt(r.swaps, 10),
			nsop,
		})
	}
	table.Render()
}

func writeCSV(st *stats.T, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err)
	}
	if err := st.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return errs.Wrap(f.Close())
}

func writePlot(rows []row, path string) error {
	pts := make(plotter.XYs, 0, len(rows))
	for _, r := range rows {
		if r.op != "insert" || r.ops == 0 {
			continue
		}
		pts = append(pts, plotter.XY{
			X: float64(r.n),
			Y: float64(r.elapsed.Nanoseconds()) / float64(r.ops),
		})
	}

	p := plot.New()
	p.Title.Text = "insert scaling"
	p.X.Label.Text = "heap size"
	p.Y.Label.Text = "ns per insert"

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return errs.Wrap(err)
	}
	p.Add(line, points)

	return errs.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path))
}
