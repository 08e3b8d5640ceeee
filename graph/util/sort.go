/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package util

import "sort"

/*
ByteStringSlice is a special type implementing the sort interface for
byte-string keys (NodeType / EdgeType are both defined as string in the
graph package but ordered lexicographically by bytes, like Go's native
string comparison).
*/
type ByteStringSlice []string

func (p ByteStringSlice) Len() int           { return len(p) }
func (p ByteStringSlice) Less(i, j int) bool { return p[i] < p[j] }
func (p ByteStringSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

/*
SortByteStrings sorts a slice of byte-string keys in increasing lexicographic
order. Used to establish the deterministic node-type / edge-type iteration
order the fitter and sampler rely on.
*/
func SortByteStrings(a []string) { sort.Sort(ByteStringSlice(a)) }
