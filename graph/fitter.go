/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import (
	"sort"
	"strings"

	"github.com/krotik/sbmgen/graph/util"
)

/*
degreeBand is one (degree, amount-of-nodes-at-that-degree) entry of a
DegreeProfile's histogram.
*/
type degreeBand struct {
	Degree int64
	Amount int64
}

/*
DegreeProfile is the in/out degree distribution of one (NodeType, EdgeType)
pair, padded for zero-degree nodes and, after Fit's shuffle step, held in a
randomized band order.
*/
type DegreeProfile struct {
	InHist, OutHist   []degreeBand
	SumIn, SumOut     int64 // Σ degree × amount
	NIn, NOut         int64 // Σ amount
}

/*
nodeTypeContainer carries one node type's node count and its DegreeProfile
per observed edge type, in the shape the Fitter's edge-block construction
step walks.
*/
type nodeTypeContainer struct {
	nodeType  NodeType
	nodeCount int64
	profiles  map[EdgeType]*DegreeProfile
}

/*
FitStats carries fit-time diagnostics: how many of the emitted edge blocks
computed a probability greater than 1 (a model failure, spec.md §4.2 step
4), and how many blocks were emitted in total.
*/
type FitStats struct {
	Failures    int64
	TotalBlocks int64
}

/*
buildHistogram turns a raw degree->amount map into a padded band slice: a
(0, nodeCount-Σamount) pad band is appended whenever some nodes of this type
never appear as an endpoint for this edge type. The bands come out in map
iteration order; Fit puts them in canonical order with sortBands.
*/
func buildHistogram(raw map[int64]int64, nodeCount int64) ([]degreeBand, int64, int64) {
	bands := make([]degreeBand, 0, len(raw)+1)
	var sum, n int64
	for d, amt := range raw {
		bands = append(bands, degreeBand{Degree: d, Amount: amt})
		sum += d * amt
		n += amt
	}
	if n < nodeCount {
		bands = append(bands, degreeBand{Degree: 0, Amount: nodeCount - n})
		n = nodeCount
	}
	return bands, sum, n
}

/*
sortBands establishes the canonical pre-shuffle order spec.md §4.2 step 2
requires: without a deterministic sort, the same seed would shuffle a
different starting permutation depending on map iteration order.
*/
func sortBands(bands []degreeBand) {
	sort.Slice(bands, func(i, j int) bool {
		if bands[i].Degree != bands[j].Degree {
			return bands[i].Degree < bands[j].Degree
		}
		return bands[i].Amount < bands[j].Amount
	})
}

func shuffleBands(bands []degreeBand, rnd randSource) {
	rnd.Shuffle(len(bands), func(i, j int) {
		bands[i], bands[j] = bands[j], bands[i]
	})
}

/*
randSource is the minimal interface the Fitter needs from a PRNG; satisfied
by *rand.Rand from graph/util.NewRand.
*/
type randSource interface {
	Shuffle(n int, swap func(i, j int))
}

/*
Fit consumes a populated Accumulator and produces a Model. meta supplies
caller-provided key/value pairs (keys are uppercased; NAME is extracted to
Meta.Name, defaulting to DefaultModelName; SCALE defaults to "1.0"). seed
makes the degree-band shuffle (and therefore the resulting block layout)
reproducible.
*/
func Fit(acc *Accumulator, meta map[string]string, seed int64) (*Model, FitStats) {
	rnd := util.NewRand(seed)

	nodeTypes := acc.NodeTypes()
	nodeTypeStrs := make([]string, len(nodeTypes))
	for i, nt := range nodeTypes {
		nodeTypeStrs[i] = string(nt)
	}
	util.SortByteStrings(nodeTypeStrs)
	for i, s := range nodeTypeStrs {
		nodeTypes[i] = NodeType(s)
	}

	edgeTypes := acc.EdgeTypes()
	edgeTypeStrs := make([]string, len(edgeTypes))
	for i, et := range edgeTypes {
		edgeTypeStrs[i] = string(et)
	}
	util.SortByteStrings(edgeTypeStrs)
	for i, s := range edgeTypeStrs {
		edgeTypes[i] = EdgeType(s)
	}

	containers := make([]*nodeTypeContainer, 0, len(nodeTypes))
	for _, nt := range nodeTypes {
		c := &nodeTypeContainer{
			nodeType:  nt,
			nodeCount: acc.NodeCount(nt),
			profiles:  make(map[EdgeType]*DegreeProfile),
		}
		for _, et := range edgeTypes {
			inBands, sumIn, nIn := buildHistogram(acc.InHistogram(et, nt), c.nodeCount)
			outBands, sumOut, nOut := buildHistogram(acc.OutHistogram(et, nt), c.nodeCount)

			sortBands(inBands)
			sortBands(outBands)
			shuffleBands(inBands, rnd)
			shuffleBands(outBands, rnd)

			c.profiles[et] = &DegreeProfile{
				InHist: inBands, OutHist: outBands,
				SumIn: sumIn, SumOut: sumOut,
				NIn: nIn, NOut: nOut,
			}
		}
		containers = append(containers, c)
	}

	model := &Model{Meta: buildMeta(meta)}

	// Lay out node blocks: contiguous, in sorted node-type order.
	var cursor float64
	for _, c := range containers {
		model.Nodes = append(model.Nodes, NodeBlock{
			Start: cursor,
			End:   cursor + float64(c.nodeCount),
			Type:  c.nodeType,
		})
		cursor += float64(c.nodeCount)
	}

	var stats FitStats

	for _, et := range edgeTypes {
		record := EdgeTypeRecord{Type: et}

		var outerX float64
		for _, cx := range containers {
			px := cx.profiles[et]
			if px.NOut == 0 {
				outerX += float64(cx.nodeCount)
				continue
			}

			var outerY float64
			for _, cy := range containers {
				py := cy.profiles[et]
				if py.NIn == 0 {
					outerY += float64(cy.nodeCount)
					continue
				}

				m := float64(acc.SBM(et, cx.nodeType, cy.nodeType))

				cxOff := outerX
				for _, xb := range px.OutHist {
					cyOff := outerY
					for _, yb := range py.InHist {
						var p float64
						if px.SumOut > 0 && py.SumIn > 0 {
							p = m * (float64(xb.Degree) / float64(px.SumOut)) *
								(float64(yb.Degree) / float64(py.SumIn))
						}

						if p > 1 {
							stats.Failures++
						}
						if p > 0 {
							record.Blocks = append(record.Blocks, EdgeBlock{
								XStart: cxOff, XEnd: cxOff + float64(xb.Amount),
								YStart: cyOff, YEnd: cyOff + float64(yb.Amount),
								P: p,
							})
							stats.TotalBlocks++
						}

						cyOff += float64(yb.Amount)
					}
					cxOff += float64(xb.Amount)
				}

				outerY += float64(cy.nodeCount)
			}
			outerX += float64(cx.nodeCount)
		}

		SortEdgeBlocks(record.Blocks)
		model.Edges = append(model.Edges, record)
	}

	SortEdgeTypes(model.Edges)
	SortNodes(model.Nodes)

	return model, stats
}

func buildMeta(meta map[string]string) Meta {
	m := NewMeta()
	m.Values[MetaScaleKey] = "1.0"
	for k, v := range meta {
		k = strings.ToUpper(k)
		if k == "NAME" {
			m.Name = v
			continue
		}
		m.Values[k] = v
	}
	return m
}

