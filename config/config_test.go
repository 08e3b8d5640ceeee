/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package config

import (
	"fmt"
	"os"
	"testing"
)

const testconf = "testconfig.json"

func TestConfig(t *testing.T) {
	Config = nil

	defer func() {
		if err := os.Remove(testconf); err != nil {
			fmt.Println("Could not remove test config file:", err.Error())
		}
	}()

	if err := LoadConfigFile(testconf); err != nil {
		t.Error(err)
		return
	}

	// File didn't exist so it should have been created from DefaultConfig

	if res := Bool(Debug); res != false {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Int(SingleThreadThreshold); res != 100 {
		t.Error("Unexpected result:", res)
		return
	}

	Config[Debug] = true

	if res := Bool(Debug); res != true {
		t.Error("Unexpected result:", res)
		return
	}

	Config[EdgeBufferSize] = 1024

	if res := Int(EdgeBufferSize); res != 1024 {
		t.Error("Unexpected result:", res)
		return
	}

	// Reload the file created above (the in-memory changes were not written
	// back) and make sure the default keys are present

	Config = nil

	if err := LoadConfigFile(testconf); err != nil {
		t.Error(err)
		return
	}

	if res := Str(WorkerCountOverride); res == "" {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestUnloadedConfig(t *testing.T) {
	Config = nil

	if res := Str(Debug); res != "" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Bool(Debug); res != false {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Int(Debug); res != 0 {
		t.Error("Unexpected result:", res)
		return
	}
}
