package models

// Platform is an advertising network the benchmark page reports on.
type Platform string

const (
	PlatformFacebook Platform = "Facebook"
	PlatformGoogle   Platform = "Google"
	PlatformLinkedIn Platform = "LinkedIn"
)

// Platforms lists platforms in the order the benchmark page publishes them.
var Platforms = []Platform{PlatformFacebook, PlatformGoogle, PlatformLinkedIn}

// BenchmarkEntry is one industry's click-through rate and cost per click.
// Values are kept exactly as published; an empty field means the page had no figure.
type BenchmarkEntry struct {
	Industry string `json:"industry"`
	CTR      string `json:"ctr,omitempty"`
	CPC      string `json:"cpc,omitempty"`
}

// Benchmarks groups entries by platform.
type Benchmarks map[Platform][]BenchmarkEntry
