/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package util

import (
	"reflect"
	"testing"
)

func TestSortByteStrings(t *testing.T) {
	a := []string{"user", "Admin", "item", "Bot"}
	SortByteStrings(a)

	want := []string{"Admin", "Bot", "item", "user"}
	if !reflect.DeepEqual(a, want) {
		t.Error("Unexpected order:", a)
	}
}
