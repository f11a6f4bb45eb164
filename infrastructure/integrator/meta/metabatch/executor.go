package metabatch

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"golang.org/x/sync/errgroup"
)

// MaxChunkSize é o limite de sub-requisições por batch da Graph API
const MaxChunkSize = 50

//go:generate mockgen -source=executor.go -destination=mocks/executor.go -package=mocks
type Runner interface {
	Execute(ctx context.Context, job Job) *Outcome
	Delete(ctx context.Context, ids []string, throttleKey string) *Outcome
	UpdateStatus(ctx context.Context, ids []string, status metadomain.Status, throttleKey string) *Outcome
	Get(ctx context.Context, relativeURLs []string, throttleKey string) *Outcome
}

type Job struct {
	Items       []*metaclient.BatchItem
	EncodeBody  bool
	ThrottleKey string
}

// Outcome é o resultado de um Execute. Success só é verdadeiro quando todas as
// sub-respostas da última tentativa vieram com código 2xx.
type Outcome struct {
	Success   bool
	Attempts  int
	Responses []metaclient.BatchResult
}

type Executor struct {
	client      metaclient.Client
	chunkSize   int
	maxAttempts int
}

func NewExecutor(client metaclient.Client, cfg config.Batch) *Executor {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 || chunkSize > MaxChunkSize {
		chunkSize = MaxChunkSize
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	return &Executor{
		client:      client,
		chunkSize:   chunkSize,
		maxAttempts: maxAttempts,
	}
}

// Execute divide os itens em chunks, envia todos em paralelo e, se qualquer
// sub-resposta falhar, reenvia o conjunto inteiro até maxAttempts vezes
func (e *Executor) Execute(ctx context.Context, job Job) *Outcome {
	items := make([]*metaclient.BatchItem, 0, len(job.Items))
	for _, item := range job.Items {
		if item != nil {
			items = append(items, item)
		}
	}

	outcome := &Outcome{Success: true, Responses: []metaclient.BatchResult{}}
	if len(items) == 0 {
		return outcome
	}

	chunks := chunk(items, e.chunkSize)

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		responses, ok := e.dispatch(ctx, chunks, job)

		outcome = &Outcome{Success: ok, Attempts: attempt, Responses: responses}
		if ok {
			return outcome
		}

		if ctx.Err() != nil {
			return outcome
		}

		logrus.WithFields(logrus.Fields{
			"attempt":      attempt,
			"items":        len(items),
			"chunks":       len(chunks),
			"throttle_key": job.ThrottleKey,
		}).Warn("metabatch: batch had failed items, reissuing all chunks")
	}

	return outcome
}

func (e *Executor) dispatch(ctx context.Context, chunks [][]*metaclient.BatchItem, job Job) ([]metaclient.BatchResult, bool) {
	results := make([][]metaclient.BatchResult, len(chunks))
	failed := make([]bool, len(chunks))

	var g errgroup.Group
	for i, items := range chunks {
		g.Go(func() error {
			resp, err := e.client.Batch(ctx, metaclient.BatchRequest{
				Items:       items,
				EncodeBody:  job.EncodeBody,
				ThrottleKey: job.ThrottleKey,
			})
			if err != nil {
				failed[i] = true
				results[i] = make([]metaclient.BatchResult, len(items))
				return errors.Wrapf(err, "chunk %d", i)
			}

			results[i] = resp
			failed[i] = len(resp) != len(items) || !allOK(resp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logrus.WithError(err).WithField("throttle_key", job.ThrottleKey).Error("metabatch: chunk request failed")
	}

	ok := true
	flat := make([]metaclient.BatchResult, 0, len(chunks)*e.chunkSize)
	for i := range chunks {
		if failed[i] {
			ok = false
		}
		flat = append(flat, results[i]...)
	}

	return flat, ok
}

func allOK(results []metaclient.BatchResult) bool {
	for i := range results {
		if !results[i].OK() {
			return false
		}
	}
	return true
}

func chunk(items []*metaclient.BatchItem, size int) [][]*metaclient.BatchItem {
	chunks := make([][]*metaclient.BatchItem, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Delete remove os objetos pelo id
func (e *Executor) Delete(ctx context.Context, ids []string, throttleKey string) *Outcome {
	items := make([]*metaclient.BatchItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, &metaclient.BatchItem{Method: http.MethodDelete, RelativeURL: id})
	}
	return e.Execute(ctx, Job{Items: items, ThrottleKey: throttleKey})
}

// UpdateStatus altera o status (ex.: ARCHIVED) dos objetos
func (e *Executor) UpdateStatus(ctx context.Context, ids []string, status metadomain.Status, throttleKey string) *Outcome {
	items := make([]*metaclient.BatchItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, &metaclient.BatchItem{
			Method:      http.MethodPost,
			RelativeURL: id,
			Body:        map[string]any{"status": string(status)},
		})
	}
	return e.Execute(ctx, Job{Items: items, EncodeBody: true, ThrottleKey: throttleKey})
}

func (e *Executor) Get(ctx context.Context, relativeURLs []string, throttleKey string) *Outcome {
	items := make([]*metaclient.BatchItem, 0, len(relativeURLs))
	for _, relativeURL := range relativeURLs {
		items = append(items, &metaclient.BatchItem{Method: http.MethodGet, RelativeURL: relativeURL})
	}
	return e.Execute(ctx, Job{Items: items, ThrottleKey: throttleKey})
}
