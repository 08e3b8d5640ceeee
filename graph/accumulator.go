/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

/*
typeTypePair is the key of the type-to-type edge-count matrix: the observed
node type of an edge's source and destination.
*/
type typeTypePair struct {
	from, to NodeType
}

/*
Accumulator observes a stream of typed nodes and typed edges and derives,
near-linearly in the number of observations, the per-node in/out degree
counts bucketed by edge type and the type-to-type edge-count matrix a Fitter
needs.

Accumulator is the Degree Accumulator and Type Statistics of spec.md §4.1/
§4.2 combined: the two are kept as two responsibilities of one struct
because they are populated by the exact same two operations and consumed
together by the Fitter's enumeration step.
*/
type Accumulator struct {
	nodeTypes    map[string]NodeType // id -> observed type (last write wins)
	nodeTypeCnt  map[NodeType]int64  // count of nodes per type

	outDegree map[EdgeType]map[string]int64 // edgeType -> nodeID -> out-degree
	inDegree  map[EdgeType]map[string]int64 // edgeType -> nodeID -> in-degree

	sbm       map[EdgeType]map[typeTypePair]int64 // type-to-type edge counts
	edgeTypes map[EdgeType]struct{}               // set of observed edge types
}

/*
NewAccumulator creates an empty Accumulator.
*/
func NewAccumulator() *Accumulator {
	return &Accumulator{
		nodeTypes:   make(map[string]NodeType),
		nodeTypeCnt: make(map[NodeType]int64),
		outDegree:   make(map[EdgeType]map[string]int64),
		inDegree:    make(map[EdgeType]map[string]int64),
		sbm:         make(map[EdgeType]map[typeTypePair]int64),
		edgeTypes:   make(map[EdgeType]struct{}),
	}
}

/*
ObserveNode records that id has the given type. The per-type node count is
incremented unconditionally, and a duplicate id silently overwrites the
previously recorded type mapping (last wins) without correcting the earlier
increment — this reflects the absence of any dedup contract on the input
stream (spec.md §9, "Open question"): a caller who feeds duplicate ids gets
an inflated node count, exactly as the reference implementation does.
*/
func (a *Accumulator) ObserveNode(id string, t NodeType) {
	a.nodeTypes[id] = t
	a.nodeTypeCnt[t]++
}

/*
typeOf returns the recorded type of id, or the empty NodeType if id was
never observed via ObserveNode. Unknown endpoints are a recoverable
condition, not an error.
*/
func (a *Accumulator) typeOf(id string) NodeType {
	if t, ok := a.nodeTypes[id]; ok {
		return t
	}
	return NodeType("")
}

/*
ObserveEdge records a single directed edge of the given type from src to
dst. It increments the out-degree of src, the in-degree of dst, and the
type-to-type count for (type(src), type(dst)), both bucketed by edgeType.
*/
func (a *Accumulator) ObserveEdge(src, dst string, t EdgeType) {
	a.edgeTypes[t] = struct{}{}

	if a.outDegree[t] == nil {
		a.outDegree[t] = make(map[string]int64)
	}
	if a.inDegree[t] == nil {
		a.inDegree[t] = make(map[string]int64)
	}
	a.outDegree[t][src]++
	a.inDegree[t][dst]++

	pair := typeTypePair{from: a.typeOf(src), to: a.typeOf(dst)}
	if a.sbm[t] == nil {
		a.sbm[t] = make(map[typeTypePair]int64)
	}
	a.sbm[t][pair]++
}

/*
NodeTypes returns the set of observed node types, unsorted.
*/
func (a *Accumulator) NodeTypes() []NodeType {
	types := make([]NodeType, 0, len(a.nodeTypeCnt))
	for t := range a.nodeTypeCnt {
		types = append(types, t)
	}
	return types
}

/*
EdgeTypes returns the set of observed edge types, unsorted.
*/
func (a *Accumulator) EdgeTypes() []EdgeType {
	types := make([]EdgeType, 0, len(a.edgeTypes))
	for t := range a.edgeTypes {
		types = append(types, t)
	}
	return types
}

/*
NodeCount returns the number of nodes currently recorded with type t.
*/
func (a *Accumulator) NodeCount(t NodeType) int64 {
	return a.nodeTypeCnt[t]
}

/*
SBM returns the observed edge count between node type `from` and node type
`to` for edges of type t.
*/
func (a *Accumulator) SBM(t EdgeType, from, to NodeType) int64 {
	m, ok := a.sbm[t]
	if !ok {
		return 0
	}
	return m[typeTypePair{from: from, to: to}]
}

/*
degreeHistogram builds the (degree, amount) multiset for every node of type
nt that has an observation in degrees (keyed by node id), restricted to the
nodes this Accumulator recorded as being of type nt.
*/
func (a *Accumulator) degreeHistogram(degrees map[string]int64, nt NodeType) map[int64]int64 {
	hist := make(map[int64]int64)
	for id, d := range degrees {
		if a.typeOf(id) == nt {
			hist[d]++
		}
	}
	return hist
}

/*
OutHistogram returns the out-degree histogram of node type nt for edge type
t, as a map degree -> amount, not yet padded for zero-degree nodes and not
yet shuffled. Padding and shuffling are the Fitter's job.
*/
func (a *Accumulator) OutHistogram(t EdgeType, nt NodeType) map[int64]int64 {
	return a.degreeHistogram(a.outDegree[t], nt)
}

/*
InHistogram returns the in-degree histogram of node type nt for edge type t,
analogous to OutHistogram.
*/
func (a *Accumulator) InHistogram(t EdgeType, nt NodeType) map[int64]int64 {
	return a.degreeHistogram(a.inDegree[t], nt)
}
