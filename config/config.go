/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package config holds sbmgen's runtime configuration: a package-level map
loaded (or created, on first run) via github.com/krotik/common/fileutil's
JSON config helper, with typed accessors for callers that need a bool or int
rather than a raw interface{} value.
*/
package config

import (
	"strconv"

	"github.com/krotik/common/fileutil"
)

/*
Configuration keys known to sbmgen.
*/
const (
	// Debug turns on sbmgen's startup diagnostics (the loaded config file and
	// the script assembled from the command line).
	Debug = "Debug"

	// WorkerCountOverride, if positive, replaces the hardware-concurrency-derived
	// worker count the sampler would otherwise pick for edge types with many
	// blocks.
	WorkerCountOverride = "WorkerCountOverride"

	// SingleThreadThreshold is the block count below which the sampler
	// processes an edge type on a single goroutine.
	SingleThreadThreshold = "SingleThreadThreshold"

	// EdgeBufferSize is the size, in bytes, of each worker's local output
	// buffer before it is flushed to the shared edge writer.
	EdgeBufferSize = "EdgeBufferSize"
)

/*
DefaultConfig is the default configuration, used to seed a config file that
does not exist yet and to fill in any key missing from one that does.
*/
var DefaultConfig = map[string]interface{}{
	Debug:                 false,
	WorkerCountOverride:   0,
	SingleThreadThreshold: 100,
	EdgeBufferSize:        65536,
}

/*
Config is the actual configuration data which is used. Nil until
LoadConfigFile has been called.
*/
var Config map[string]interface{}

/*
LoadConfigFile loads filename via fileutil.LoadConfig, creating it from
DefaultConfig if it does not yet exist, and sets Config to the result.
*/
func LoadConfigFile(filename string) error {
	data, err := fileutil.LoadConfig(filename, DefaultConfig)
	if err != nil {
		return err
	}
	Config = data
	return nil
}

/*
Str returns the string value of key via fileutil.ConfStr, or the empty
string if Config has not been loaded.
*/
func Str(key string) string {
	if Config == nil {
		return ""
	}
	return fileutil.ConfStr(Config, key)
}

/*
Bool returns the boolean value of key via fileutil.ConfBool, defaulting to
false if Config has not been loaded.
*/
func Bool(key string) bool {
	if Config == nil {
		return false
	}
	return fileutil.ConfBool(Config, key)
}

/*
Int returns the integer value of key, defaulting to 0 if Config has not been
loaded or the value does not parse as an integer.
*/
func Int(key string) int {
	i, _ := strconv.Atoi(Str(key))
	return i
}
