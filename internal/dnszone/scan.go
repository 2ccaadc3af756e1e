package dnszone

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// scanMarker anchors extraction to the scan object in a log capture.
var scanMarker = []byte(`{"JobId"`)

// ErrNoScanData indicates the input contains no scan-result object.
var ErrNoScanData = errors.New("dnszone: no scan results found")

// ExtractScan pulls the scan-result object out of raw log output. Captures
// from curl carry progress noise and stray control bytes around the JSON
// payload; everything before the object and after it is discarded.
func ExtractScan(data []byte) (*ScanResult, error) {
	idx := bytes.Index(data, scanMarker)
	if idx < 0 {
		return nil, ErrNoScanData
	}

	var result ScanResult
	dec := json.NewDecoder(bytes.NewReader(stripControl(data[idx:])))
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("dnszone: parsing scan results: %w", err)
	}
	return &result, nil
}

// stripControl drops control bytes that are not JSON whitespace.
func stripControl(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c >= 0x20 || c == '\n' || c == '\r' || c == '\t' {
			out = append(out, c)
		}
	}
	return out
}
