/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package sampler draws a concrete, discrete multigraph out of a fitted
graph.Model and writes it out as two TSV streams: one node-id/type record per
discrete node id, and one source-id/target-id/edge-type record per sampled
edge.

Edges within a single EdgeBlock are independent Bernoulli(P) trials over
every (x, y) pair in the block's rectangle. Rather than drawing one coin flip
per cell - infeasible for blocks covering billions of pairs - Sample uses
Luc Devroye's geometric-skip method to jump directly from one realized edge
to the next, drawing one uniform deviate per edge instead of one per
candidate pair.
*/
package sampler

import (
	"bufio"
	"io"
	"math"
	"runtime"
	"strconv"
	"sync"

	"github.com/krotik/sbmgen/config"
	"github.com/krotik/sbmgen/graph"
	"github.com/krotik/sbmgen/graph/util"
)

/*
Stats carries sampling diagnostics: the number of bytes written to the node
and edge streams, and how many edges were sampled in total.
*/
type Stats struct {
	NodeBytes int64
	EdgeBytes int64
	EdgeCount int64
}

/*
discreteBlock is an EdgeBlock with its continuous coordinates already
resolved to the discrete, inclusive (startX, endX, startY, endY) integer
range they cover, and its probability clamped to [0, 1].
*/
type discreteBlock struct {
	startX, endX, startY, endY int64
	p                          float64
}

/*
discretizeBlock recovers the integer node-id range of a continuous EdgeBlock
using the same floor convention as the rest of the system: a half-open
(Start, End] range covers discrete ids floor(Start)+1 .. floor(End). Blocks
that invert under this conversion - which can happen after aggressive
downscaling - are dropped, matching the reference implementation.
*/
func discretizeBlock(b graph.EdgeBlock) (discreteBlock, bool) {
	d := discreteBlock{
		startX: int64(b.XStart) + 1,
		endX:   int64(b.XEnd),
		startY: int64(b.YStart) + 1,
		endY:   int64(b.YEnd),
		p:      b.P,
	}
	if d.endX < d.startX || d.endY < d.startY {
		return discreteBlock{}, false
	}
	if d.p > 1 {
		d.p = 1
	}
	return d, true
}

/*
WriteNodes writes one "<id>\t<type>\n" record per discrete node id covered
by nodes, in the order the blocks are given (callers should pass
graph.SortNodes-ordered input for a reproducible file). It returns the
number of bytes written.
*/
func WriteNodes(w io.Writer, nodes []graph.NodeBlock) (int64, error) {
	bw := bufio.NewWriterSize(w, 1<<16)
	var n int64

	for _, b := range nodes {
		start := int64(b.Start) + 1
		end := int64(b.End)
		for id := start; id <= end; id++ {
			written, err := bw.WriteString(strconv.FormatInt(id, 10))
			if err != nil {
				return n, &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
			}
			n += int64(written)

			if err := bw.WriteByte('\t'); err != nil {
				return n, &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
			}
			n++

			written, err = bw.WriteString(string(b.Type))
			if err != nil {
				return n, &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
			}
			n += int64(written)

			if err := bw.WriteByte('\n'); err != nil {
				return n, &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
			}
			n++
		}
	}

	if err := bw.Flush(); err != nil {
		return n, &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
	}
	return n, nil
}

/*
sampleBlock draws every realized edge of a single discrete block and passes
each (x, y) pair to emit, using Devroye's geometric-skip method: since each
of the len_x*len_y cells is an independent Bernoulli(p) trial, the distance
to the next success is geometrically distributed, and a single uniform
deviate per edge is enough to compute that distance directly instead of
flipping a coin per cell.

A probability of exactly 0 or 1 is handled by the caller; this function
assumes 0 < p < 1. emit returns false to stop sampling early, e.g. because a
buffer flush it triggered failed.

rnd.Float64() draws from [0, 1), but the deviate feeding math.Log2 must come
from the open interval (0, 1): a drawn 0 would log2 to -Inf and send the
jump distance to math.MinInt64, spinning the loop without ever crossing
endY. Redraw on 0, the same way the reference guards its uniform
distribution against its own closed boundary.
*/
func sampleBlock(b discreteBlock, rnd rand64, emit func(x, y int64) bool) {
	lenX := (b.endX - b.startX) + 1

	denominator := (1 / math.Log(1-b.p)) * math.Ln2

	var offsetX int64
	idxY := b.startY

	for {
		u := rnd.Float64()
		for u == 0 {
			u = rnd.Float64()
		}
		jump := int64(1 + math.Ceil(math.Log2(u)*denominator))
		nextOffset := offsetX + jump

		offsetX = nextOffset % lenX
		idxY += nextOffset / lenX

		if idxY > b.endY {
			return
		}

		if !emit(b.startX+offsetX, idxY) {
			return
		}
	}
}

/*
rand64 is the minimal PRNG surface sampleBlock and the worker pool need.
*/
type rand64 interface {
	Float64() float64
}

/*
edgeWriter buffers formatted "<x>\t<y>\t<type>\n" edge records and flushes
them to a shared writer behind a mutex, mirroring the single output-buffer
design of the reference generator: workers accumulate locally and only take
the lock to hand off a full buffer.
*/
type edgeWriter struct {
	mu    *sync.Mutex
	out   io.Writer
	bytes int64
}

func (ew *edgeWriter) write(buf []byte) error {
	ew.mu.Lock()
	defer ew.mu.Unlock()
	n, err := ew.out.Write(buf)
	ew.bytes += int64(n)
	if err != nil {
		return &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
	}
	return nil
}

/*
defaultEdgeBufferSize is the fallback worker local-buffer size used when
config.EdgeBufferSize has not been configured (or is zero/negative).
*/
const defaultEdgeBufferSize = 1 << 16

/*
edgeBufferSize returns the configured worker local-buffer size, falling back
to defaultEdgeBufferSize if config has not been loaded or carries a
non-positive value.
*/
func edgeBufferSize() int {
	if n := config.Int(config.EdgeBufferSize); n > 0 {
		return n
	}
	return defaultEdgeBufferSize
}

/*
sampleWorker runs sampleBlock over blocks[start:end] (inclusive), formatting
each sampled edge as a TSV record and flushing to w in edgeBufferSize()
chunks.
*/
func sampleWorker(blocks []discreteBlock, start, end int, edgeType graph.EdgeType, seed int64, w *edgeWriter, count *int64, countMu *sync.Mutex) error {
	rnd := util.NewRand(seed)

	flushSize := edgeBufferSize()
	buf := make([]byte, 0, flushSize+256)
	var localCount int64

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := w.write(buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	for i := start; i <= end; i++ {
		b := blocks[i]
		if b.p <= 0 {
			continue
		}
		if b.p >= 1 {
			for x := b.startX; x <= b.endX; x++ {
				for y := b.startY; y <= b.endY; y++ {
					buf = appendEdge(buf, x, y, edgeType)
					localCount++
					if len(buf) >= flushSize {
						if err := flush(); err != nil {
							return err
						}
					}
				}
			}
			continue
		}

		var sampleErr error
		sampleBlock(b, rnd, func(x, y int64) bool {
			buf = appendEdge(buf, x, y, edgeType)
			localCount++
			if len(buf) >= flushSize {
				if err := flush(); err != nil {
					sampleErr = err
					return false
				}
			}
			return true
		})
		if sampleErr != nil {
			return sampleErr
		}
	}

	if err := flush(); err != nil {
		return err
	}

	countMu.Lock()
	*count += localCount
	countMu.Unlock()

	return nil
}

func appendEdge(buf []byte, x, y int64, t graph.EdgeType) []byte {
	buf = strconv.AppendInt(buf, x, 10)
	buf = append(buf, '\t')
	buf = strconv.AppendInt(buf, y, 10)
	buf = append(buf, '\t')
	buf = append(buf, t...)
	buf = append(buf, '\n')
	return buf
}

/*
partitionCount mirrors the reference generator's thread count: one less than
the number of logical CPUs, floored at 1 - unless config.WorkerCountOverride
has been set to a positive value, in which case that value wins outright.
*/
func partitionCount() int {
	if n := config.Int(config.WorkerCountOverride); n > 0 {
		return n
	}
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

/*
defaultSingleThreadedThreshold is the fallback block count below which
Sample does not bother spinning up a worker pool for an edge type, matching
the reference generator's "< 100" shortcut. Used when
config.SingleThreadThreshold has not been configured (or is zero/negative).
*/
const defaultSingleThreadedThreshold = 100

/*
singleThreadedThreshold returns the configured single-thread cutoff, falling
back to defaultSingleThreadedThreshold if config has not been loaded or
carries a non-positive value.
*/
func singleThreadedThreshold() int {
	if n := config.Int(config.SingleThreadThreshold); n > 0 {
		return n
	}
	return defaultSingleThreadedThreshold
}

/*
SampleEdges draws the discrete edge multigraph for a single model.Edges
EdgeTypeRecord and writes "<src>\t<dst>\t<type>\n" records to w. Edge types
are processed by the caller sequentially (spec.md requires this to keep
memory bounded record-by-record); within one edge type, its blocks are
partitioned across a worker pool unless there are too few to be worth it.
seed derives one child seed per worker from graph/util.DeriveSeed, so the
same top-level seed reproduces the same sampled graph only as long as the
worker count (partitionCount) stays the same; a different worker count
changes which edges are drawn.
*/
func SampleEdges(w io.Writer, record graph.EdgeTypeRecord, seed int64) (Stats, error) {
	rnd := util.NewRand(seed)

	blocks := make([]discreteBlock, 0, len(record.Blocks))
	for _, b := range record.Blocks {
		db, ok := discretizeBlock(b)
		if !ok {
			continue
		}
		blocks = append(blocks, db)
	}

	ew := &edgeWriter{mu: &sync.Mutex{}, out: w}
	var count int64
	var countMu sync.Mutex

	if len(blocks) < singleThreadedThreshold() {
		childSeed := util.DeriveSeed(rnd)
		if err := sampleWorker(blocks, 0, len(blocks)-1, record.Type, childSeed, ew, &count, &countMu); err != nil {
			return Stats{}, err
		}
		return Stats{EdgeBytes: ew.bytes, EdgeCount: count}, nil
	}

	nWorkers := partitionCount()
	workloadSize := len(blocks) / nWorkers
	overflow := len(blocks) % nWorkers

	var wg sync.WaitGroup
	errs := make([]error, nWorkers)

	start := 0
	for worker := 0; worker < nWorkers; worker++ {
		size := workloadSize
		if worker == 0 {
			size += overflow
		}
		end := start + size - 1
		if end >= len(blocks) {
			end = len(blocks) - 1
		}
		if start > end {
			start = end + 1
			continue
		}

		childSeed := util.DeriveSeed(rnd)
		wg.Add(1)
		go func(worker, start, end int, childSeed int64) {
			defer wg.Done()
			errs[worker] = sampleWorker(blocks, start, end, record.Type, childSeed, ew, &count, &countMu)
		}(worker, start, end, childSeed)

		start = end + 1
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Stats{}, err
		}
	}

	return Stats{EdgeBytes: ew.bytes, EdgeCount: count}, nil
}

/*
Sample draws the full discrete multigraph for model: one node-id/type record
per discrete node id, written to nodeOut, and one source/target/type record
per sampled edge for every edge type in model.Edges, written to edgeOut.
Edge types are processed sequentially and in model.Edges order so that two
runs with the same seed always touch the PRNG stream in the same sequence.
*/
func Sample(model *graph.Model, seed int64, nodeOut, edgeOut io.Writer) (Stats, error) {
	var total Stats

	nodeBytes, err := WriteNodes(nodeOut, model.Nodes)
	if err != nil {
		return total, err
	}
	total.NodeBytes = nodeBytes

	rnd := util.NewRand(seed)

	for _, record := range model.Edges {
		childSeed := util.DeriveSeed(rnd)
		stats, err := SampleEdges(edgeOut, record, childSeed)
		if err != nil {
			return total, err
		}
		total.EdgeBytes += stats.EdgeBytes
		total.EdgeCount += stats.EdgeCount
	}

	return total, nil
}
