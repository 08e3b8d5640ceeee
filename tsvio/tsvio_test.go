/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package tsvio

import (
	"strings"
	"testing"

	"github.com/krotik/sbmgen/graph"
)

func TestReadNodesBasic(t *testing.T) {
	input := "id\ttype\n1\tuser\n2\titem\n"
	acc := graph.NewAccumulator()

	stats, err := ReadNodes(strings.NewReader(input), acc, NodeColumns{ID: 0, Type: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Read != 2 || stats.Skipped != 0 {
		t.Error("Unexpected stats:", stats)
	}
	if acc.NodeCount("user") != 1 || acc.NodeCount("item") != 1 {
		t.Error("Unexpected node counts")
	}
}

func TestReadNodesCompositeType(t *testing.T) {
	input := "id\tcat\tsubcat\n1\tuser\tadmin\n"
	acc := graph.NewAccumulator()

	_, err := ReadNodes(strings.NewReader(input), acc, NodeColumns{ID: 0, Type: []int{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if acc.NodeCount("user_admin") != 1 {
		t.Error("Expected a composite type of user_admin")
	}
}

func TestReadNodesSkipsShortLines(t *testing.T) {
	input := "id\ttype\n1\tuser\n2\n3\titem\n"
	acc := graph.NewAccumulator()

	stats, err := ReadNodes(strings.NewReader(input), acc, NodeColumns{ID: 0, Type: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Read != 2 || stats.Skipped != 1 {
		t.Error("Unexpected stats:", stats)
	}
}

func TestReadNodesFatalOnInsufficientHeaderColumns(t *testing.T) {
	input := "id\n1\n"
	acc := graph.NewAccumulator()

	if _, err := ReadNodes(strings.NewReader(input), acc, NodeColumns{ID: 0, Type: []int{1}}); err == nil {
		t.Error("Expected a fatal error for a header too narrow for the configured indices")
	}
}

func TestReadNodesFatalOnEmptyFile(t *testing.T) {
	acc := graph.NewAccumulator()
	if _, err := ReadNodes(strings.NewReader(""), acc, NodeColumns{ID: 0, Type: []int{1}}); err == nil {
		t.Error("Expected a fatal error for an empty file")
	}
}

func TestReadEdgesBasic(t *testing.T) {
	input := "src\tdst\ttype\n1\t2\tclick\n2\t3\tclick\n"
	acc := graph.NewAccumulator()
	acc.ObserveNode("1", "user")
	acc.ObserveNode("2", "user")
	acc.ObserveNode("3", "user")

	stats, err := ReadEdges(strings.NewReader(input), acc, EdgeColumns{Start: 0, End: 1, Type: []int{2}})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Read != 2 {
		t.Error("Unexpected stats:", stats)
	}
	if acc.SBM("click", "user", "user") != 2 {
		t.Error("Unexpected SBM count")
	}
}
