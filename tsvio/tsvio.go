/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package tsvio reads tab-separated node and edge files into a graph.Accumulator.
The first line of every file is a header that only fixes the expected column
count - column names are not matched by name, only by position, via the
NodeColumns / EdgeColumns configuration passed to ReadNodes / ReadEdges.

A node or edge type may be a composite of several columns: the configured
indices are read in order, joined with "_", to form the type string. This
mirrors how the source data this format was built for frequently spreads a
type across more than one field (e.g. a category and a sub-category column).
*/
package tsvio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/krotik/sbmgen/graph"
	"github.com/krotik/sbmgen/graph/util"
)

/*
NodeColumns configures which columns of a node TSV file carry the node id
and the (possibly composite) node type.
*/
type NodeColumns struct {
	ID   int
	Type []int
}

/*
EdgeColumns configures which columns of an edge TSV file carry the source
id, the target id and the (possibly composite) edge type.
*/
type EdgeColumns struct {
	Start int
	End   int
	Type  []int
}

/*
Stats carries per-file ingestion diagnostics.
*/
type Stats struct {
	Read    int64
	Skipped int64
}

func maxIndex(indices []int) int {
	m := 0
	for _, i := range indices {
		if i > m {
			m = i
		}
	}
	return m
}

func compositeType(columns []string, indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = columns[idx]
	}
	return strings.Join(parts, "_")
}

/*
ReadNodes streams r as a tab-separated node file into acc, taking each
node's id and (possibly composite) type from the columns in cols. The first line is consumed as a header and used only to establish the
expected column count; every subsequent line whose column count does not
match it is skipped and counted in the returned Stats, not treated as fatal.
A header that does not define enough columns for cols is fatal.
*/
func ReadNodes(r io.Reader, acc *graph.Accumulator, cols NodeColumns) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)

	if !scanner.Scan() {
		return stats, &util.GraphError{Type: util.ErrInputFormat, Detail: "node file is empty, missing header line"}
	}
	header := strings.TrimSuffix(scanner.Text(), "\r")
	headerColumns := strings.Split(header, "\t")
	expected := len(headerColumns)

	highest := cols.ID
	if m := maxIndex(cols.Type); m > highest {
		highest = m
	}
	if highest >= expected {
		return stats, &util.GraphError{Type: util.ErrInputFormat, Detail: fmt.Sprintf(
			"node file defines %d column(s), need at least %d to read the configured indices", expected, highest+1)}
	}

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		columns := strings.Split(line, "\t")
		if len(columns) != expected {
			stats.Skipped++
			continue
		}

		id := columns[cols.ID]
		nt := compositeType(columns, cols.Type)
		acc.ObserveNode(id, graph.NodeType(nt))
		stats.Read++
	}
	if err := scanner.Err(); err != nil {
		return stats, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}

	return stats, nil
}

/*
ReadEdges streams r as a tab-separated edge file into acc, taking each
edge's source id, target id and (possibly composite) type from the columns
in cols. Behaves analogously to ReadNodes.
*/
func ReadEdges(r io.Reader, acc *graph.Accumulator, cols EdgeColumns) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)

	if !scanner.Scan() {
		return stats, &util.GraphError{Type: util.ErrInputFormat, Detail: "edge file is empty, missing header line"}
	}
	header := strings.TrimSuffix(scanner.Text(), "\r")
	headerColumns := strings.Split(header, "\t")
	expected := len(headerColumns)

	highest := cols.Start
	if cols.End > highest {
		highest = cols.End
	}
	if m := maxIndex(cols.Type); m > highest {
		highest = m
	}
	if highest >= expected {
		return stats, &util.GraphError{Type: util.ErrInputFormat, Detail: fmt.Sprintf(
			"edge file defines %d column(s), need at least %d to read the configured indices", expected, highest+1)}
	}

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		columns := strings.Split(line, "\t")
		if len(columns) != expected {
			stats.Skipped++
			continue
		}

		start := columns[cols.Start]
		end := columns[cols.End]
		et := compositeType(columns, cols.Type)
		acc.ObserveEdge(start, end, graph.EdgeType(et))
		stats.Read++
	}
	if err := scanner.Err(); err != nil {
		return stats, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}

	return stats, nil
}
