/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package graph implements the core of the Directed Degree-Corrected
Stochastic Block Model: the Degree Accumulator and Type Statistics that
observe a typed multigraph, the Fitter that turns those observations into a
Model, and the Scaler that rescales a Model by an arbitrary positive factor.

Model

A Model is the only entity of this system that persists beyond a single
call: a block-structured probability distribution over a continuous node
axis, fitted once from an observed graph and then scaled any number of
times. The sbmgen/sampler and sbmgen/codec packages consume and produce
Models but do not mutate the one passed to them.
*/
package graph

import (
	"sort"

	"github.com/krotik/common/errorutil"
)

/*
NodeType is an opaque, total-ordered (lexicographically, by byte value)
identifier for a class of nodes.
*/
type NodeType string

/*
EdgeType is an opaque, total-ordered (lexicographically, by byte value)
identifier for a class of edges.
*/
type EdgeType string

/*
NodeBlock represents a contiguous, half-open interval (Start, End] of the
continuous node axis, every discrete id in which belongs to a single
NodeType. The discrete node ids covered by a block are
floor(Start)+1 .. floor(End).
*/
type NodeBlock struct {
	Start, End float64
	Type       NodeType
}

/*
Count returns the discrete number of node ids covered by this block.
*/
func (b NodeBlock) Count() int64 {
	errorutil.AssertTrue(b.End >= b.Start, "node block end must not precede its start")
	return int64(b.End) - int64(b.Start)
}

/*
EdgeBlock is a rectangle over (source id, target id) continuous space.
Every ordered pair of discrete ids inside the rectangle is an independent
Bernoulli(P) trial.
*/
type EdgeBlock struct {
	XStart, XEnd, YStart, YEnd float64
	P                          float64
}

/*
EdgeTypeRecord is the ordered list of EdgeBlocks that share an EdgeType.
*/
type EdgeTypeRecord struct {
	Type   EdgeType
	Blocks []EdgeBlock
}

/*
Meta carries the fitted model's name and an open bag of string key/value
pairs. SCALE is a reserved key which accumulates the product of every
scaling factor applied since the model was fit.
*/
type Meta struct {
	Name   string
	Values map[string]string
}

/*
MetaScaleKey is the reserved Meta.Values key carrying the cumulative scale
factor.
*/
const MetaScaleKey = "SCALE"

/*
NewMeta creates a Meta with the default name and an empty value set.
*/
func NewMeta() Meta {
	return Meta{Name: DefaultModelName, Values: map[string]string{}}
}

/*
DefaultModelName is used when the caller supplies no NAME in fit().
*/
const DefaultModelName = "Unnamed graph model"

/*
Model is the fitted (and optionally scaled) Directed Degree-Corrected
Stochastic Block Model: an ordered, contiguous partition of the node axis
into NodeBlocks, and an ordered set of EdgeTypeRecords describing the
probability of an edge between any two discrete ids.
*/
type Model struct {
	Meta  Meta
	Nodes []NodeBlock
	Edges []EdgeTypeRecord
}

/*
NodeCount returns the total number of discrete node ids covered by the
Model's node blocks.
*/
func (m *Model) NodeCount() int64 {
	var n int64
	for _, b := range m.Nodes {
		n += b.Count()
	}
	return n
}

/*
SortNodes sorts the Model's node blocks by (Start, End), the canonical order
required by the invariants in spec.md §3.
*/
func SortNodes(nodes []NodeBlock) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Start != nodes[j].Start {
			return nodes[i].Start < nodes[j].Start
		}
		return nodes[i].End < nodes[j].End
	})
}

/*
SortEdgeBlocks sorts a single edge type's blocks by (XStart, YStart).
*/
func SortEdgeBlocks(blocks []EdgeBlock) {
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].XStart != blocks[j].XStart {
			return blocks[i].XStart < blocks[j].XStart
		}
		return blocks[i].YStart < blocks[j].YStart
	})
}

/*
SortEdgeTypes sorts the Model's edge-type records by EdgeType.
*/
func SortEdgeTypes(edges []EdgeTypeRecord) {
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Type < edges[j].Type
	})
}
