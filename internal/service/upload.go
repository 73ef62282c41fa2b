package service

import (
	"log"
	"os"
	"path/filepath"
	"sync"
)

type writeJob struct {
	path string
	data []byte
}

// UploadWriter persists uploaded media off the request path. Failures are
// logged, not returned: the metadata row already exists and the client is
// expected to re-upload if the file never lands.
type UploadWriter struct {
	jobs chan writeJob
	wg   sync.WaitGroup
	once sync.Once
}

func NewUploadWriter(workers int) *UploadWriter {
	if workers <= 0 {
		workers = 2
	}
	w := &UploadWriter{jobs: make(chan writeJob, workers*4)}
	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go w.run()
	}
	return w
}

func (w *UploadWriter) run() {
	defer w.wg.Done()
	for job := range w.jobs {
		if err := os.MkdirAll(filepath.Dir(job.path), 0o755); err != nil {
			log.Printf("[UploadWriter] Failed to create dir for %s: %v", job.path, err)
			continue
		}
		if err := os.WriteFile(job.path, job.data, 0o644); err != nil {
			log.Printf("[UploadWriter] Failed to write %s: %v", job.path, err)
		}
	}
}

func (w *UploadWriter) Enqueue(path string, data []byte) {
	w.jobs <- writeJob{path: path, data: data}
}

// Close drains pending writes and stops the workers.
func (w *UploadWriter) Close() {
	w.once.Do(func() { close(w.jobs) })
	w.wg.Wait()
}
