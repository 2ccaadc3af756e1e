package dnszone

import "fmt"

// ScanResult is the JSON object produced by a zone scan job.
type ScanResult struct {
	JobID   int64        `json:"JobId"`
	Records []ScanRecord `json:"Records"`
}

// ScanRecord is one discovered record in a scan result. Priority, Weight and
// Port may be absent or null in scan output; both cases decode as zero.
type ScanRecord struct {
	Type     int    `json:"Type"`
	Name     string `json:"Name"`
	Value    string `json:"Value"`
	TTL      int32  `json:"Ttl"`
	Priority int32  `json:"Priority"`
	Weight   int32  `json:"Weight"`
	Port     int32  `json:"Port"`
}

// AddRecordRequest is the request body for the add-record endpoint.
type AddRecordRequest struct {
	Type     int    `json:"Type"`
	Name     string `json:"Name"`
	Value    string `json:"Value"`
	TTL      int32  `json:"Ttl"`
	Priority int32  `json:"Priority"`
	Weight   int32  `json:"Weight"`
	Port     int32  `json:"Port"`
	Flags    int    `json:"Flags"`
	Tag      string `json:"Tag"`
	Disabled bool   `json:"Disabled"`
	Comment  string `json:"Comment"`
}

// Record is the API's representation of a created DNS record.
type Record struct {
	ID    int64  `json:"Id"`
	Type  int    `json:"Type"`
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// AddRequest converts a scan record into an add-record request.
func (r ScanRecord) AddRequest() AddRecordRequest {
	return AddRecordRequest{
		Type:     r.Type,
		Name:     r.Name,
		Value:    r.Value,
		TTL:      r.TTL,
		Priority: r.Priority,
		Weight:   r.Weight,
		Port:     r.Port,
		Comment:  "Added from DNS scan",
	}
}

// TypeName returns the DNS mnemonic for a numeric record type code.
func TypeName(code int) string {
	switch code {
	case 0:
		return "A"
	case 1:
		return "AAAA"
	case 2:
		return "CNAME"
	case 3:
		return "TXT"
	case 4:
		return "MX"
	case 8:
		return "SRV"
	}
	return fmt.Sprintf("Type%d", code)
}
