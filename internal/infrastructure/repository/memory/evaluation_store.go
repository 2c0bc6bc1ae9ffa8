// Package memory holds in-process stores for state that does not need to
// outlive the api process. Evaluation batches are transient: they exist to
// ferry a report back to the caller that started them.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/evaluation"
)

// EvaluationStore is a mutex-guarded map keyed by batch id. Writes are
// last-write-wins.
type EvaluationStore struct {
	mu      sync.RWMutex
	batches map[string]evaluation.Batch
}

func NewEvaluationStore() *EvaluationStore {
	return &EvaluationStore{batches: make(map[string]evaluation.Batch)}
}

func (s *EvaluationStore) SaveEvaluation(_ context.Context, batch *evaluation.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.ID] = cloneBatch(*batch)
	return nil
}

func (s *EvaluationStore) GetEvaluation(_ context.Context, id string) (*evaluation.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	batch, ok := s.batches[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrResultNotFound, "get evaluation", fmt.Errorf("id=%s", id))
	}
	copyBatch := cloneBatch(batch)
	return &copyBatch, nil
}

// cloneBatch detaches the stored record from the caller's copy. The report
// struct is copied by value; it is write-once, assembled before save.
func cloneBatch(batch evaluation.Batch) evaluation.Batch {
	out := batch
	if batch.TaskIDs != nil {
		out.TaskIDs = append([]string(nil), batch.TaskIDs...)
	}
	if batch.GroundTruth != nil {
		out.GroundTruth = make(map[string]domain.Category, len(batch.GroundTruth))
		for k, v := range batch.GroundTruth {
			out.GroundTruth[k] = v
		}
	}
	if batch.Report != nil {
		report := *batch.Report
		out.Report = &report
	}
	return out
}
