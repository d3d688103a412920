package ft

import (
	"slices"
	"strings"
)

// EquivalenceClass is the set of hashed records sharing one digest.
// Representative stays in place; Duplicates are relocation candidates.
type EquivalenceClass struct {
	Digest         string
	Representative *FileRecord
	Duplicates     []*FileRecord
}

// Members returns the representative followed by the duplicates.
func (c *EquivalenceClass) Members() []*FileRecord {
	return append([]*FileRecord{c.Representative}, c.Duplicates...)
}

// Pending returns the duplicates that have not been moved yet.
func (c *EquivalenceClass) Pending() []*FileRecord {
	var out []*FileRecord
	for _, d := range c.Duplicates {
		if d.Status != StatusMoved {
			out = append(out, d)
		}
	}
	return out
}

// Classification is the classifier's output for one scan.
type Classification struct {
	// Classes with at least one duplicate, ordered by representative path.
	Classes []*EquivalenceClass
	// Unique is the number of distinct digests among hashed records.
	Unique int
}

// DuplicateCount is the total number of relocation candidates.
func (c *Classification) DuplicateCount() int {
	n := 0
	for _, cl := range c.Classes {
		n += len(cl.Duplicates)
	}
	return n
}

// SortRecords orders records by slash-separated relative path, byte-wise.
// This order decides which copy of a file survives.
func SortRecords(records []*FileRecord) {
	slices.SortStableFunc(records, func(a, b *FileRecord) int {
		return strings.Compare(a.sortKey(), b.sortKey())
	})
}

// Classify groups hashed records by digest. The first record of each digest in
// SortRecords order is the representative, regardless of name, size or mtime.
// Records that were skipped or failed never enter a class.
func Classify(records []*FileRecord) *Classification {
	ordered := slices.Clone(records)
	SortRecords(ordered)

	byDigest := make(map[string]*EquivalenceClass)
	var order []*EquivalenceClass
	for _, rec := range ordered {
		if rec.Status != StatusHashed {
			continue
		}
		cl, ok := byDigest[rec.Digest]
		if !ok {
			cl = &EquivalenceClass{Digest: rec.Digest, Representative: rec}
			byDigest[rec.Digest] = cl
			order = append(order, cl)
			continue
		}
		cl.Duplicates = append(cl.Duplicates, rec)
	}

	result := &Classification{Unique: len(order)}
	for _, cl := range order {
		if len(cl.Duplicates) > 0 {
			result.Classes = append(result.Classes, cl)
		}
	}
	return result
}
