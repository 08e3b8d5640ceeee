/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
sbmgen fits a directed, degree-corrected stochastic block model from an
observed TSV graph, and can scale and resample it into new synthetic graphs
of arbitrary size. Every command-line argument is concatenated into a single
script and run through the script package - see -help for the instruction
grammar.
*/
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/krotik/common/errorutil"
	"github.com/krotik/common/termutil"
	"github.com/krotik/sbmgen/config"
	"github.com/krotik/sbmgen/script"
)

/*
ConfigFile is the config file sbmgen reads on startup, if present. It is
created from config.DefaultConfig on first run.
*/
var ConfigFile = "sbmgen.config.json"

/*
HistoryFile is the command history file used by the interactive shell.
*/
var HistoryFile = ".sbmgen_history"

/*
consolelogger is a custom type so unit tests can intercept fatal log calls.
*/
type consolelogger func(v ...interface{})

var fatal consolelogger = func(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
	os.Exit(1)
}
var print consolelogger = func(v ...interface{}) {
	fmt.Fprintln(os.Stdout, v...)
}

/*
Main entry point for sbmgen. With command line arguments it assembles and
runs them as a single script. Without any it drops into an interactive
REPL reading instructions from the terminal until 'quit' is entered.
*/
func main() {
	if err := config.LoadConfigFile(ConfigFile); err != nil {
		fatal("Could not load config file:", err.Error())
		return
	}
	if config.Bool(config.Debug) {
		print("Debug: loaded config from", ConfigFile)
	}

	if len(os.Args) <= 1 {
		runInteractive()
		return
	}

	startingScript := assembleScript(os.Args[1:])
	if config.Bool(config.Debug) {
		print("Debug: running script:", startingScript)
	}

	tokens, err := script.Tokenize(startingScript, nil)
	if err != nil {
		fatal(err)
		return
	}

	instructions, err := script.Parse(tokens)
	if err != nil {
		fatal(err)
		return
	}

	shell := script.NewShell(os.Stdout, time.Now().UnixNano())

	if err := shell.Run(instructions); err != nil {
		fatal(err)
		return
	}
}

/*
isExitLine returns true if a line typed into the interactive shell should
end the session.
*/
func isExitLine(s string) bool {
	return s == "exit" || s == "q" || s == "quit" || s == "bye" || s == "\x04"
}

/*
runInteractive drives a line-oriented REPL over a single, persistent Shell
so that -READ/-LOAD state carries from one typed line to the next.
*/
func runInteractive() {
	clt, err := termutil.NewConsoleLineTerminal(os.Stdout)
	errorutil.AssertOk(err)

	histfile := filepath.Join(filepath.Dir(os.Args[0]), HistoryFile)
	clt, err = termutil.AddHistoryMixin(clt, histfile, isExitLine)
	if err != nil {
		fatal("Could not start interactive shell:", err.Error())
		return
	}

	if err := clt.StartTerm(); err != nil {
		fatal("Could not start interactive shell:", err.Error())
		return
	}
	defer clt.StopTerm()

	print("sbmgen interactive shell - type '-help' for the instruction grammar, 'quit' to exit.")

	shell := script.NewShell(clt, time.Now().UnixNano())

	line, err := clt.NextLine()
	for err == nil && !isExitLine(line) {
		if strings.TrimSpace(line) != "" {
			if runErr := runLine(shell, line); runErr != nil {
				fmt.Fprintln(clt, runErr.Error())
			}
		}
		line, err = clt.NextLine()
	}
}

/*
runLine tokenizes, parses and runs a single interactively typed line against
the given Shell.
*/
func runLine(shell *script.Shell, line string) error {
	tokens, err := script.Tokenize(line, nil)
	if err != nil {
		return err
	}

	instructions, err := script.Parse(tokens)
	if err != nil {
		return err
	}

	return shell.Run(instructions)
}

/*
assembleScript concatenates raw argv entries into a single script string,
quoting any argument that does not itself look like a tag or subtag so that
paths containing spaces survive Tokenize unscathed.
*/
func assembleScript(args []string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if strings.HasPrefix(a, "-") || strings.HasPrefix(a, "+") {
			b.WriteString(a)
		} else {
			b.WriteByte('"')
			b.WriteString(a)
			b.WriteByte('"')
		}
	}
	return b.String()
}
