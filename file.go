// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// minHeaderSize is the smallest a .jsc file can be: the fixed header alone,
// with zero reservation chunks, code stubs, or payload.
const minHeaderSize = 40

// Options for Parsing.
type Options struct {

	// DataDir overrides the embedded root/builtin/version/js-runtime tables
	// with v8_roots.json, v8_builtins.json, v8_versions.json and
	// v8_jsruns.json read from this directory, by default (embedded tables).
	DataDir string

	// Quiet drops the logger to error level, by default (false) logs
	// warnings for every anomaly and skipped SharedFunctionInfo.
	Quiet bool

	// Verbose includes the constant pool and handler table dumps in
	// FormatText, by default (false).
	Verbose bool

	// A custom logger.
	Logger log.Logger
}

// A File represents a parsed V8 compiled code cache (.jsc file).
type File struct {
	Header    Header
	Version   string
	Is32Bit   bool
	Functions []*SharedFunctionInfo
	Anomalies []string

	data mmap.MMap
	f    *os.File

	opts   *Options
	logger *log.Helper
}

func (jsc *File) setupLogger(opts *Options) {
	if opts != nil {
		jsc.opts = opts
	} else {
		jsc.opts = &Options{}
	}

	var logger log.Logger
	if jsc.opts.Logger == nil {
		logger = log.NewStdLogger(os.Stdout)
		if jsc.opts.Quiet {
			jsc.logger = log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError)))
		} else {
			jsc.logger = log.NewHelper(logger)
		}
	} else {
		jsc.logger = log.NewHelper(jsc.opts.Logger)
	}
}

// New instantiates a File given a file name, memory-mapping it for parsing.
func New(name string, opts *Options) (*File, error) {

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	// Memory map the file instead of using read/write.
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	jsc := &File{f: f, data: data}
	jsc.setupLogger(opts)
	return jsc, nil
}

// NewBytes instantiates a File given an in-memory buffer.
func NewBytes(data []byte, opts *Options) (*File, error) {
	jsc := &File{data: mmap.MMap(data)}
	jsc.setupLogger(opts)
	return jsc, nil
}

// Close closes the File.
func (jsc *File) Close() error {
	if jsc.data != nil {
		_ = jsc.data.Unmap()
	}

	if jsc.f != nil {
		return jsc.f.Close()
	}
	return nil
}

func (jsc *File) warn(format string, args ...interface{}) {
	jsc.logger.Warnf(format, args...)
}

// peekHeader reads just enough of the header to resolve the version hash and
// pointer width before handing the buffer to a Deserializer, which needs
// pointer width up front to size every offset it computes.
func peekHeader(data []byte, catalog *VersionCatalog) (versionHash uint32, is32Bit bool, err error) {
	r := NewBinaryReader(data)

	magic, err := r.ReadUint32()
	if err != nil {
		return 0, false, err
	}
	switch magic {
	case MagicIgnitionCache, MagicIgnitionCacheAlt:
		// supported
	case MagicModernSnapshot:
		return 0, false, ErrUnsupportedSnapshotFormat
	default:
		return 0, false, ErrMagicNotFound
	}

	versionHash, err = r.ReadUint32()
	if err != nil {
		return 0, false, err
	}

	is32Bit, _ = catalog.DetectBitness(versionHash)
	return versionHash, is32Bit, nil
}

// Parse performs the file parsing for a .jsc compiled code cache: resolve
// the V8 version and pointer width from the header, replay the snapshot
// payload against the reservation table, and decode every
// SharedFunctionInfo reachable from the script's function list. A
// SharedFunctionInfo that fails to decode is skipped and recorded as an
// anomaly rather than aborting the whole run.
func (jsc *File) Parse() error {

	// check for the smallest JSC header size.
	if len(jsc.data) < minHeaderSize {
		return ErrTooSmall
	}

	catalog := LoadVersionCatalog(jsc.opts.DataDir, jsc.warn)
	roots := LoadRoots(jsc.opts.DataDir, jsc.warn)
	builtins := LoadBuiltins(jsc.opts.DataDir, jsc.warn)

	versionHash, is32Bit, err := peekHeader(jsc.data, catalog)
	if err != nil {
		return err
	}
	jsc.Is32Bit = is32Bit

	jsc.Version = catalog.DetectVersion(versionHash)
	if jsc.Version == "" {
		jsc.logger.Warnf("unrecognized V8 version hash %s, assuming %s pointer width",
			formatVersionHash(versionHash), bitnessLabel(is32Bit))
		jsc.addAnomaly(AnoUnrecognizedVersionHash)
		jsc.Version = "unknown"
	}

	// Parse the reservation table and replay the payload stream.
	d := NewDeserializer(jsc.data, jsc.Is32Bit, roots, builtins, jsc.warn)
	objs, err := d.Parse()
	if err != nil {
		return err
	}
	jsc.Header = d.header
	for _, a := range d.Anomalies() {
		jsc.addAnomaly(a)
	}
	if len(objs) == 0 {
		return ErrNoOldSpace
	}

	ps := uint32(8)
	if jsc.Is32Bit {
		ps = 4
	}
	cache := newScopeInfoCache()

	// Decode every SharedFunctionInfo, keeping parsing moving even though
	// some entries fail.
	for _, obj := range objs {
		func() {
			defer func() {
				if e := recover(); e != nil {
					jsc.logger.Warnf("unhandled exception decoding a SharedFunctionInfo, reason: %v", e)
					jsc.addAnomaly(fmt.Sprintf("%s: %v", AnoSkippedFunction, e))
				}
			}()
			jsc.Functions = append(jsc.Functions, NewSharedFunctionInfo(obj, ps, cache))
		}()
	}

	return nil
}

// JSRuntimeNames returns the CallJSRuntime context-index name table this
// File was parsed with, for callers rendering pseudo-JS output.
func (jsc *File) JSRuntimeNames() []string {
	return LoadJSRuntimes(jsc.opts.DataDir, jsc.warn)
}
