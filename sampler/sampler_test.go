/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package sampler

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/krotik/sbmgen/config"
	"github.com/krotik/sbmgen/graph"
	"github.com/krotik/sbmgen/graph/util"
)

func TestDiscretizeBlockFloorConvention(t *testing.T) {
	d, ok := discretizeBlock(graph.EdgeBlock{XStart: 0, XEnd: 3, YStart: 2, YEnd: 5, P: 0.2})
	if !ok {
		t.Fatal("Expected a valid block")
	}
	if d.startX != 1 || d.endX != 3 || d.startY != 3 || d.endY != 5 {
		t.Error("Unexpected discrete range:", d)
	}
}

func TestDiscretizeBlockDropsInvertedRange(t *testing.T) {
	if _, ok := discretizeBlock(graph.EdgeBlock{XStart: 5, XEnd: 1, YStart: 0, YEnd: 1, P: 0.5}); ok {
		t.Error("Expected an inverted block to be dropped")
	}
}

func TestDiscretizeBlockClampsProbability(t *testing.T) {
	d, ok := discretizeBlock(graph.EdgeBlock{XStart: 0, XEnd: 1, YStart: 0, YEnd: 1, P: 1.5})
	if !ok || d.p != 1 {
		t.Error("Expected clamped probability of 1:", d)
	}
}

func TestWriteNodes(t *testing.T) {
	var buf bytes.Buffer

	nodes := []graph.NodeBlock{
		{Start: 0, End: 2, Type: "user"},
		{Start: 2, End: 3, Type: "item"},
	}

	n, err := WriteNodes(&buf, nodes)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Error("Byte count mismatch:", n, buf.Len())
	}

	want := "1\tuser\n2\tuser\n3\titem\n"
	if buf.String() != want {
		t.Errorf("Unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestSampleWorkerFullProbabilityEmitsEveryCell(t *testing.T) {
	var buf bytes.Buffer
	ew := &edgeWriter{mu: &sync.Mutex{}, out: &buf}
	var count int64
	var countMu sync.Mutex

	blocks := []discreteBlock{{startX: 1, endX: 2, startY: 1, endY: 2, p: 1}}

	if err := sampleWorker(blocks, 0, 0, "click", 1, ew, &count, &countMu); err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Error("Expected 4 edges for a 2x2 full block:", count)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Error("Unexpected line count:", lines)
	}
}

func TestSampleWorkerZeroProbabilityEmitsNothing(t *testing.T) {
	var buf bytes.Buffer
	ew := &edgeWriter{mu: &sync.Mutex{}, out: &buf}
	var count int64
	var countMu sync.Mutex

	blocks := []discreteBlock{{startX: 1, endX: 10, startY: 1, endY: 10, p: 0}}

	if err := sampleWorker(blocks, 0, 0, "click", 1, ew, &count, &countMu); err != nil {
		t.Fatal(err)
	}
	if count != 0 || buf.Len() != 0 {
		t.Error("Expected no output for a zero-probability block")
	}
}

func TestSampleBlockExpectedEdgeCount(t *testing.T) {
	b := discreteBlock{startX: 1, endX: 1000, startY: 1, endY: 1000, p: 0.01}
	rnd := util.NewRand(42)

	var got int64
	sampleBlock(b, rnd, func(x, y int64) bool { got++; return true })

	want := float64(1000*1000) * b.p
	if math.Abs(float64(got)-want) > want*0.05 {
		t.Errorf("Sampled edge count %d too far from expectation %v", got, want)
	}
}

func TestPartitionCountHonorsWorkerCountOverride(t *testing.T) {
	defer func() { config.Config = nil }()

	config.Config = map[string]interface{}{config.WorkerCountOverride: "7"}
	if n := partitionCount(); n != 7 {
		t.Error("Expected the configured worker count override to win:", n)
	}

	config.Config = map[string]interface{}{config.WorkerCountOverride: "0"}
	if n := partitionCount(); n < 1 {
		t.Error("Expected a floor of 1 when no override is configured:", n)
	}
}

func TestSingleThreadedThresholdHonorsConfig(t *testing.T) {
	defer func() { config.Config = nil }()

	config.Config = map[string]interface{}{config.SingleThreadThreshold: "5"}
	if got := singleThreadedThreshold(); got != 5 {
		t.Error("Expected the configured threshold:", got)
	}

	config.Config = nil
	if got := singleThreadedThreshold(); got != defaultSingleThreadedThreshold {
		t.Error("Expected the default threshold when config is unloaded:", got)
	}
}

func TestEdgeBufferSizeHonorsConfig(t *testing.T) {
	defer func() { config.Config = nil }()

	config.Config = map[string]interface{}{config.EdgeBufferSize: "128"}
	if got := edgeBufferSize(); got != 128 {
		t.Error("Expected the configured buffer size:", got)
	}

	config.Config = nil
	if got := edgeBufferSize(); got != defaultEdgeBufferSize {
		t.Error("Expected the default buffer size when config is unloaded:", got)
	}
}

func TestSampleEndToEnd(t *testing.T) {
	model := &graph.Model{
		Meta: graph.Meta{Name: "m"},
		Nodes: []graph.NodeBlock{
			{Start: 0, End: 5, Type: "user"},
		},
		Edges: []graph.EdgeTypeRecord{
			{Type: "click", Blocks: []graph.EdgeBlock{
				{XStart: 0, XEnd: 5, YStart: 0, YEnd: 5, P: 1},
			}},
		},
	}

	var nodeOut, edgeOut bytes.Buffer
	stats, err := Sample(model, 1, &nodeOut, &edgeOut)
	if err != nil {
		t.Fatal(err)
	}
	if stats.EdgeCount != 25 {
		t.Error("Expected 25 edges for a full 5x5 block:", stats.EdgeCount)
	}
	if stats.NodeBytes != int64(nodeOut.Len()) {
		t.Error("NodeBytes mismatch:", stats.NodeBytes, nodeOut.Len())
	}
}
