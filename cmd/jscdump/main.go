// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	jscdump "github.com/saferwall/jscdump"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	wantJSON   bool
	wantJS     bool
	wantDisasm bool
	dataDir    string
)

func isDirectory(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

func dumpFile(filename string) {
	opts := &jscdump.Options{Quiet: quiet, Verbose: verbose, DataDir: dataDir}

	f, err := jscdump.New(filename, opts)
	if err != nil {
		log.Printf("error while opening file: %s, reason: %s", filename, err)
		return
	}
	defer f.Close()

	if err := f.Parse(); err != nil {
		log.Printf("error while parsing file: %s, reason: %s", filename, err)
		return
	}

	switch {
	case wantJSON:
		out, err := jscdump.FormatJSON(f.Version, f.Is32Bit, f.Functions)
		if err != nil {
			log.Printf("error formatting JSON for %s: %s", filename, err)
			return
		}
		fmt.Println(out)
	case wantDisasm:
		fmt.Println(jscdump.FormatDisasm(f.Functions))
	case wantJS:
		fmt.Println(jscdump.FormatJS(f.Version, f.Is32Bit, f.Functions, filename, f.JSRuntimeNames()))
	default:
		fmt.Println(jscdump.FormatText(f.Version, f.Is32Bit, f.Functions, verbose))
	}

	for _, a := range f.Anomalies {
		log.Printf("anomaly: %s", a)
	}
}

func dump(cmd *cobra.Command, args []string) {
	filePath := args[0]

	if !isDirectory(filePath) {
		dumpFile(filePath)
		return
	}

	// filePath points to a directory, walk recursively through all files.
	var fileList []string
	filepath.Walk(filePath, func(path string, f os.FileInfo, err error) error {
		if err == nil && !f.IsDir() {
			fileList = append(fileList, path)
		}
		return nil
	})

	for _, file := range fileList {
		dumpFile(file)
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "jscdump",
		Short: "A V8 compiled code cache (.jsc) parser",
		Long:  "Deserializes V8 compiled code cache files, disassembles their Ignition bytecode, and reconstructs pseudo-JS, built for malware analysis by Saferwall",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Long:  "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("You are using version 0.1.0")
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Dumps a .jsc file",
		Long:  "Decodes a .jsc file (or every file in a directory) and prints its functions, their scope, and their bytecode",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "include constant pool and handler table dumps")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "silence warning-level logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override embedded root/builtin/version tables from this directory")
	dumpCmd.Flags().BoolVar(&wantJSON, "json", false, "render as JSON instead of text")
	dumpCmd.Flags().BoolVar(&wantJS, "js", false, "render as reconstructed pseudo-JS instead of text")
	dumpCmd.Flags().BoolVar(&wantDisasm, "disasm", false, "render only the bytecode disassembly")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
