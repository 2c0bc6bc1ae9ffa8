package usecase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/evaluation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type extractorFake struct {
	method domain.ExtractionMethod
	text   string
	err    error
	calls  int
}

func (f *extractorFake) Extract(context.Context, domain.Document) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *extractorFake) Method() domain.ExtractionMethod { return f.method }

type classifierFake struct {
	method domain.ClassificationMethod
	raw    domain.RawClassification
	err    error
	calls  int
}

func (f *classifierFake) Classify(context.Context, string) (domain.RawClassification, error) {
	f.calls++
	if f.err != nil {
		return domain.RawClassification{}, f.err
	}
	return f.raw, nil
}

func (f *classifierFake) Method() domain.ClassificationMethod { return f.method }

type statusCall struct {
	status   domain.TaskStatus
	progress string
	errMsg   string
}

type taskStoreFake struct {
	mu          sync.Mutex
	tasks       map[string]*domain.Task
	statusCalls []statusCall
	createErr   error
	statusErr   error
}

func newTaskStoreFake() *taskStoreFake {
	return &taskStoreFake{tasks: make(map[string]*domain.Task)}
}

func (f *taskStoreFake) CreateTask(_ context.Context, task *domain.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copyTask := *task
	f.tasks[task.ID] = &copyTask
	return nil
}

func (f *taskStoreFake) GetTask(_ context.Context, id string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copyTask := *task
	return &copyTask, nil
}

func (f *taskStoreFake) ListTasks(context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Task, 0, len(f.tasks))
	for _, task := range f.tasks {
		out = append(out, *task)
	}
	return out, nil
}

func (f *taskStoreFake) UpdateTaskStatus(_ context.Context, id string, status domain.TaskStatus, progress, errMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, statusCall{status: status, progress: progress, errMsg: errMessage})
	if f.statusErr != nil {
		return f.statusErr
	}
	if task, ok := f.tasks[id]; ok {
		task.Status = status
		task.Progress = progress
		task.Error = errMessage
	}
	return nil
}

type resultStoreFake struct {
	mu      sync.Mutex
	results map[string]*domain.PipelineResult
	saveErr error
}

func newResultStoreFake() *resultStoreFake {
	return &resultStoreFake{results: make(map[string]*domain.PipelineResult)}
}

func (f *resultStoreFake) SaveResult(_ context.Context, result *domain.PipelineResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copyResult := *result
	f.results[result.TaskID] = &copyResult
	return nil
}

func (f *resultStoreFake) GetResult(_ context.Context, taskID string) (*domain.PipelineResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result, ok := f.results[taskID]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	copyResult := *result
	return &copyResult, nil
}

type storageFake struct {
	mu      sync.Mutex
	objects map[string][]byte
	openErr error
}

func newStorageFake() *storageFake {
	return &storageFake{objects: make(map[string][]byte)}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.objects[key]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishTaskQueued(_ context.Context, taskID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, taskID)
	return nil
}

func (f *queueFake) SubscribeTaskQueued(context.Context, func(context.Context, string) error) error {
	return nil
}

type evaluationStoreFake struct {
	mu      sync.Mutex
	batches map[string]*evaluation.Batch
}

func newEvaluationStoreFake() *evaluationStoreFake {
	return &evaluationStoreFake{batches: make(map[string]*evaluation.Batch)}
}

func (f *evaluationStoreFake) SaveEvaluation(_ context.Context, batch *evaluation.Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copyBatch := *batch
	f.batches[batch.ID] = &copyBatch
	return nil
}

func (f *evaluationStoreFake) GetEvaluation(_ context.Context, id string) (*evaluation.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch, ok := f.batches[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	copyBatch := *batch
	return &copyBatch, nil
}
