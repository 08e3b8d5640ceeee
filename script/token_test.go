/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package script

import (
	"reflect"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	tokens, err := Tokenize(`-read +nodefile "a path/with space.tsv" +nodeindex 0`, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []Token{
		{Kind: TokenTag, Value: "-READ"},
		{Kind: TokenSubtag, Value: "+NODEFILE"},
		{Kind: TokenArgument, Value: "a path/with space.tsv"},
		{Kind: TokenSubtag, Value: "+NODEINDEX"},
		{Kind: TokenArgument, Value: "0"},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Unexpected tokens: %+v", tokens)
	}
}

func TestTokenizeUnmatchedQuoteIsFatal(t *testing.T) {
	if _, err := Tokenize(`-save "unterminated`, nil); err == nil {
		t.Error("Expected an error for an unterminated quote")
	}
}

func TestTokenizeAppliesReplacementsInOrder(t *testing.T) {
	tokens, err := Tokenize("-save {{OUT}}", []Replacement{{Template: "{{OUT}}", Value: "out.m1"}})
	if err != nil {
		t.Fatal(err)
	}
	if tokens[1].Value != "out.m1" {
		t.Error("Unexpected replacement result:", tokens)
	}
}

func TestTokenizePreservesArgumentCase(t *testing.T) {
	tokens, err := Tokenize("-save MixedCase.m1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if tokens[1].Value != "MixedCase.m1" {
		t.Error("Expected the argument's case to be preserved:", tokens[1].Value)
	}
}
