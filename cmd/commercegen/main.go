//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package main is the entry point for commercegen.
package main

import (
	"fmt"
	"os"

	"github.com/commercebench/commercegen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
