package services

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type JobKind string

const (
	JobGenerate JobKind = "generate"
	JobSubmit   JobKind = "submit"
)

// Job is one unit of asynchronous workflow work. Epoch is the session's
// draft generation at enqueue time; the runner drops the result if the
// session has moved on since.
type Job struct {
	SessionID uuid.UUID
	Epoch     uint64
	Kind      JobKind
}

// JobRunner executes a workflow job. Implemented by the workflow manager.
type JobRunner interface {
	RunJob(ctx context.Context, job Job)
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job Job)
}

type worker struct {
	runner      JobRunner
	jobQueue    chan Job
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewWorker(runner JobRunner, concurrency int) Worker {
	return &worker{
		runner:      runner,
		jobQueue:    make(chan Job, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// Enqueue implements Worker.
func (w *worker) Enqueue(job Job) {
	select {
	case w.jobQueue <- job:
		log.Printf("📥 %s job enqueued for session %s\n", job.Kind, job.SessionID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue %s job for session %s\n", job.Kind, job.SessionID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case job := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing %s job for session %s\n", workerID, job.Kind, job.SessionID)
			w.runner.RunJob(ctx, job)
		}
	}
}
