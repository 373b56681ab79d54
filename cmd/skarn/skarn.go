// Copyright 2024 The Skarn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The skarn command type-checks a Skarn source file.
// With no arguments, it starts a read-check-print loop (REPL).
package main // import "go.skarn.net/cmd/skarn"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"golang.org/x/term"

	"go.skarn.net/check"
	"go.skarn.net/repl"
	"go.skarn.net/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	ns         = flag.String("ns", "", "check files under namespace `name`")
	showscope  = flag.Bool("showscope", false, "on success, print the unit's top-level scope")
	execprog   = flag.String("c", "", "check program `prog`")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("skarn: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		ck(err)
		err = pprof.StartCPUProfile(f)
		ck(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			ck(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		ck(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			ck(err)
			err = f.Close()
			ck(err)
		}()
	}

	c := check.NewChecker()
	c.Ns = *ns

	switch {
	case flag.NArg() == 1 || *execprog != "":
		var (
			filename string
			src      interface{}
		)
		if *execprog != "" {
			// Check provided program.
			filename = "cmdline"
			src = *execprog
		} else {
			// Check specified file.
			filename = flag.Arg(0)
		}
		f, err := syntax.Parse(filename, src)
		if err != nil {
			repl.PrintError(err)
			return 1
		}
		unit, err := c.File(f)
		if err != nil {
			repl.PrintError(err)
			return 1
		}
		if *showscope {
			for _, obj := range unit.Scope.Objects() {
				fmt.Fprintf(os.Stderr, "%s: %s\n", obj.Ident, obj.Type)
			}
		}
	case flag.NArg() == 0:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Println("Welcome to Skarn (go.skarn.net)")
		}
		repl.REPL(c)
	default:
		log.Print("want at most one Skarn file name")
		return 1
	}

	return 0
}

func ck(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
