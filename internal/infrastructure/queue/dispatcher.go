package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ReportSubmitter applies a daily report on behalf of a user.
type ReportSubmitter interface {
	SubmitDailyReport(ctx context.Context, actor *domain.User, projectID string, input ports.DailyReportInput) (*domain.ProgressUpdate, error)
}

// ReportJob is a daily report waiting to be applied. Done, when set, receives
// the outcome on the worker goroutine.
type ReportJob struct {
	Actor     *domain.User
	ProjectID string
	Input     ports.DailyReportInput
	Done      func(*domain.ProgressUpdate, error)
}

// Dispatcher routes daily reports to a fixed set of workers using consistent
// hashing on the project id, so reports for one project apply in the order
// they were enqueued.
type Dispatcher struct {
	workers []chan ReportJob
	service ReportSubmitter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ReportSubmitter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ReportJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ReportJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Stop has drained their queues.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its project. It blocks
// once that worker's buffer is full.
func (d *Dispatcher) Enqueue(job ReportJob) {
	d.workers[d.shardIndex(job.ProjectID)] <- job
}

// Stop closes the queues and waits for the workers to finish pending jobs.
// Enqueue must not be called afterwards.
func (d *Dispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// shardIndex maps a project id deterministically to a worker index.
func (d *Dispatcher) shardIndex(projectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ReportJob) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			u, err := d.service.SubmitDailyReport(ctx, job.Actor, job.ProjectID, job.Input)
			if err != nil {
				d.log.Error().Err(err).
					Str("project_id", job.ProjectID).
					Int("worker_id", id).
					Msg("daily report failed")
			}
			if job.Done != nil {
				job.Done(u, err)
			}
		}
	}
}
