package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// SequentialRotator is an io.Writer that rotates its file once it grows
// past maxSize, renaming the old file with an increasing sequence number
// ("2025-07-01.log" -> "2025-07-01.1.log") and pruning the oldest backups.
type SequentialRotator struct {
	filename   string
	maxSize    int64
	maxBackups int

	mu   sync.Mutex
	file *os.File
	size int64
}

func NewSequentialRotator(filename string, maxSizeMB, maxBackups int) *SequentialRotator {
	return &SequentialRotator{
		filename:   filename,
		maxSize:    int64(maxSizeMB) * 1024 * 1024,
		maxBackups: maxBackups,
	}
}

func (r *SequentialRotator) Write(p []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.openFile(); err != nil {
			return 0, err
		}
	}

	if r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *SequentialRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *SequentialRotator) openFile() error {
	if err := os.MkdirAll(filepath.Dir(r.filename), 0755); err != nil {
		return err
	}

	if info, err := os.Stat(r.filename); err == nil {
		r.size = info.Size()
	} else {
		r.size = 0
	}

	file, err := os.OpenFile(r.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	r.file = file
	return nil
}

func (r *SequentialRotator) rotate() error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return err
		}
		r.file = nil
	}

	base := strings.TrimSuffix(r.filename, ".log")
	rotated := fmt.Sprintf("%s.%d.log", base, r.nextSequence())
	if err := os.Rename(r.filename, rotated); err != nil {
		return err
	}

	r.pruneBackups()

	r.size = 0
	return r.openFile()
}

// nextSequence returns one past the highest sequence number among the
// already rotated files.
func (r *SequentialRotator) nextSequence() int {
	maxSeq := 0
	for _, seq := range r.backupSequences() {
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func (r *SequentialRotator) pruneBackups() {
	if r.maxBackups <= 0 {
		return
	}

	seqs := r.backupSequences()
	if len(seqs) <= r.maxBackups {
		return
	}

	sort.Sort(sort.Reverse(sort.IntSlice(seqs)))
	base := strings.TrimSuffix(r.filename, ".log")
	for _, seq := range seqs[r.maxBackups:] {
		_ = os.Remove(fmt.Sprintf("%s.%d.log", base, seq))
	}
}

func (r *SequentialRotator) backupSequences() []int {
	dir := filepath.Dir(r.filename)
	base := strings.TrimSuffix(filepath.Base(r.filename), ".log")

	files, err := filepath.Glob(filepath.Join(dir, base+".*.log"))
	if err != nil {
		return nil
	}

	var seqs []int
	for _, file := range files {
		// Filenames look like "2025-07-01.3.log".
		parts := strings.Split(filepath.Base(file), ".")
		if len(parts) < 3 {
			continue
		}
		if seq, err := strconv.Atoi(parts[len(parts)-2]); err == nil {
			seqs = append(seqs, seq)
		}
	}
	return seqs
}
