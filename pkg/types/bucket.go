// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Bucket names the partition a catalog row is classified into.
type Bucket string

const (
	// BucketValid holds rows whose image field decodes as an image.
	BucketValid Bucket = "valid"
	// BucketError holds every other row: missing, malformed, or non-image payloads.
	BucketError Bucket = "error"
)

// Buckets lists all buckets in output order.
var Buckets = []Bucket{BucketValid, BucketError}

// Counts holds the number of rows assigned to each bucket.
type Counts struct {
	Valid int `json:"valid" yaml:"valid"`
	Error int `json:"error" yaml:"error"`
}

// Add increments the counter for b.
func (c *Counts) Add(b Bucket) {
	switch b {
	case BucketValid:
		c.Valid++
	case BucketError:
		c.Error++
	}
}

// Get returns the counter for b.
func (c Counts) Get(b Bucket) int {
	switch b {
	case BucketValid:
		return c.Valid
	case BucketError:
		return c.Error
	}
	return 0
}

// Total returns the number of rows classified.
func (c Counts) Total() int {
	return c.Valid + c.Error
}
