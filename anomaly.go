// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

// Anomalies this package can observe while decoding a .jsc file. None of
// these prevent decoding the rest of the file, but a V8 code cache this
// malformed is a strong signal of hand-crafted or corrupted input rather
// than a genuine compiler artifact, which matters to a malware analyst.
var (

	// AnoUnrecognizedVersionHash is reported when the header's version hash
	// does not match any cataloged V8 release; pointer width then falls
	// back to a 64-bit guess.
	AnoUnrecognizedVersionHash = "version hash not found in catalog, guessing pointer width"

	// AnoSkippedFunction is reported when decoding one SharedFunctionInfo
	// panics; that function is dropped but the rest of the file is still
	// processed.
	AnoSkippedFunction = "skipped a SharedFunctionInfo that failed to decode"

	// AnoUnsupportedControlByte is reported for a serializer control byte
	// this package doesn't implement, mirroring an unimplemented path in
	// V8's own deserializer (e.g. kHotObjectsWithSkip). kBackrefWithSkip is
	// also unimplemented but is skipped without reporting this anomaly.
	AnoUnsupportedControlByte = "unsupported serializer control byte"

	// AnoRootArrayIndexOutOfRange is reported when a root array reference
	// indexes past the end of the loaded root table.
	AnoRootArrayIndexOutOfRange = "root array index out of range"
)

// addAnomaly appends anomaly to jsc.Anomalies, deduplicating exact repeats.
func (jsc *File) addAnomaly(anomaly string) {
	if !stringInSlice(anomaly, jsc.Anomalies) {
		jsc.Anomalies = append(jsc.Anomalies, anomaly)
	}
}
