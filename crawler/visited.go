package crawler

import (
	"errors"
	"fmt"
	"os"
	"sync"

	bloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/edsrzf/mmap-go"
)

// VisitedSet records the normalized paths a crawl has fetched or excluded.
// It only grows during a crawl.
type VisitedSet interface {
	Visit(path string)
	IsVisited(path string) bool
}

// memoryVisited is the exact, map-backed VisitedSet used by default.
type memoryVisited struct {
	paths map[string]struct{}
}

// NewMemoryVisited returns an exact in-memory VisitedSet.
func NewMemoryVisited() VisitedSet {
	return &memoryVisited{paths: make(map[string]struct{})}
}

func (m *memoryVisited) Visit(path string) {
	m.paths[path] = struct{}{}
}

func (m *memoryVisited) IsVisited(path string) bool {
	_, ok := m.paths[path]
	return ok
}

// VisitedTracker implements a disk-backed bloom filter for path deduplication.
// It uses a memory-mapped file for constant memory footprint regardless of
// crawl size. A false positive makes the crawler skip a page it never fetched;
// it can never cause a page to be fetched twice.
type VisitedTracker struct {
	mu        sync.Mutex
	filter    *bloom.BloomFilter
	file      *os.File
	mmap      mmap.MMap
	tmpPath   string
	count     uint64 // URLs added since last sync
	syncEvery uint64 // Sync to disk every N URLs
	lastErr   error  // Last error from sync operations
}

// NewVisitedTracker creates a disk-backed tracker sized for expected paths at
// the given false positive rate. The bloom filter lives in a temporary file
// that Close removes.
func NewVisitedTracker(expected uint, fpRate float64) (*VisitedTracker, error) {
	if expected == 0 {
		expected = DefaultBloomCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultBloomFalsePositiveRate
	}
	filter := bloom.NewWithEstimates(expected, fpRate)

	tmpFile, err := os.CreateTemp(os.TempDir(), "docscrawl-visited-*.bloom")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Marshaled form is the bit set plus a small header.
	filterSize := int(filter.Cap()/8) + 64
	if err := tmpFile.Truncate(int64(filterSize)); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("truncate temp file: %w", err)
	}

	mapped, err := mmap.MapRegion(tmpFile, filterSize, mmap.RDWR, 0, 0)
	if err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("mmap temp file: %w", err)
	}

	data, err := filter.MarshalBinary()
	if err != nil {
		_ = mapped.Unmap()
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("marshal bloom filter: %w", err)
	}

	if len(data) > len(mapped) {
		_ = mapped.Unmap()
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("filter data (%d) exceeds mmap size (%d)", len(data), len(mapped))
	}
	copy(mapped, data)

	return &VisitedTracker{
		filter:    filter,
		file:      tmpFile,
		mmap:      mapped,
		tmpPath:   tmpPath,
		syncEvery: 1000,
	}, nil
}

// Visit marks a path as visited. The filter is flushed to disk every
// syncEvery additions; flush failures are kept for LastError.
func (v *VisitedTracker) Visit(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filter.AddString(path)
	v.count++

	if v.count >= v.syncEvery {
		if err := v.syncLocked(); err != nil {
			v.lastErr = err
		}
	}
}

// IsVisited checks if a path has been visited.
func (v *VisitedTracker) IsVisited(path string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.filter.TestString(path)
}

// syncLocked persists the bloom filter to disk. Must be called with mu held.
// Returns any error encountered during sync.
func (v *VisitedTracker) syncLocked() error {
	data, err := v.filter.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal bloom filter: %w", err)
	}

	if len(data) <= len(v.mmap) {
		copy(v.mmap, data)
	}

	if flushErr := v.mmap.Flush(); flushErr != nil {
		return fmt.Errorf("flush mmap: %w", flushErr)
	}
	v.count = 0
	return nil
}

// Close syncs any pending data and cleans up resources.
func (v *VisitedTracker) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var errs []error

	if v.lastErr != nil {
		errs = append(errs, v.lastErr)
	}

	if v.mmap != nil {
		if v.count > 0 {
			if syncErr := v.syncLocked(); syncErr != nil {
				errs = append(errs, syncErr)
			}
		}
		if err := v.mmap.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
		v.mmap = nil
	}

	if v.file != nil {
		if err := v.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close file: %w", err))
		}
		v.file = nil
	}

	if v.tmpPath != "" {
		if err := os.Remove(v.tmpPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove temp file: %w", err))
		}
		v.tmpPath = ""
	}

	if len(errs) > 0 {
		return fmt.Errorf("close visited tracker: %w", errors.Join(errs...))
	}

	return nil
}

// LastError returns the last error from a periodic sync.
func (v *VisitedTracker) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}
