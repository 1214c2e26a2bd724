// File: internal/usecase/mocks_test.go
package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
)

// memJobRepo is a small in-memory job record store used by unit tests.
type memJobRepo struct {
	mu    sync.Mutex
	store map[string]*model.JobRecord

	findErr          error
	markRunningErr   error
	markCompletedErr error
	markRestoringErr error
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{store: make(map[string]*model.JobRecord)}
}

func (m *memJobRepo) put(rec *model.JobRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.store[rec.JobID] = &cp
}

func (m *memJobRepo) get(jobID string) *model.JobRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.store[jobID]; ok {
		cp := *r
		return &cp
	}
	return nil
}

func (m *memJobRepo) Create(ctx context.Context, rec *model.JobRecord) error {
	m.put(rec)
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, jobID string) (*model.JobRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if r := m.get(jobID); r != nil {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memJobRepo) ListByUser(ctx context.Context, userID string) ([]*model.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.JobRecord
	for _, r := range m.store {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memJobRepo) MarkRunning(ctx context.Context, jobID string) error {
	if m.markRunningErr != nil {
		return m.markRunningErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.JobStatus != model.JobStatusPending {
		return domain.ErrConditionFailed
	}
	r.JobStatus = model.JobStatusRunning
	return nil
}

func (m *memJobRepo) MarkCompleted(ctx context.Context, jobID, resultsBucket, resultKey, logKey string, completeTime int64) error {
	if m.markCompletedErr != nil {
		return m.markCompletedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	r.S3ResultsBucket = resultsBucket
	r.S3KeyResultFile = resultKey
	r.S3KeyLogFile = logKey
	r.CompleteTime = completeTime
	r.JobStatus = model.JobStatusCompleted
	return nil
}

func (m *memJobRepo) MarkArchived(ctx context.Context, jobID, archiveID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	r.ResultsFileArchiveID = archiveID
	r.JobStatus = model.JobStatusArchived
	return nil
}

func (m *memJobRepo) MarkRestoring(ctx context.Context, jobID string) error {
	if m.markRestoringErr != nil {
		return m.markRestoringErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	r.JobStatus = model.JobStatusRestoring
	return nil
}

func (m *memJobRepo) MarkRestored(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	r.ResultsFileArchiveID = ""
	r.JobStatus = model.JobStatusCompleted
	return nil
}

// memUserRepo holds user profiles keyed by id.
type memUserRepo struct {
	mu      sync.Mutex
	store   map[string]*model.UserProfile
	findErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.UserProfile)}
}

func (m *memUserRepo) add(p *model.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
}

func (m *memUserRepo) FindByID(ctx context.Context, userID string) (*model.UserProfile, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memUserRepo) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role = role
	return nil
}

// memObjectStore keeps objects in a map and moves bytes to and from real
// files for the download/upload paths.
type memObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	downloadErr error
	uploadErr   error
	getErr      error
	putErr      error
	deleteErr   error
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string][]byte)}
}

func objKey(bucket, key string) string { return bucket + "/" + key }

func (m *memObjectStore) set(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objKey(bucket, key)] = data
}

func (m *memObjectStore) has(bucket, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[objKey(bucket, key)]
	return ok
}

func (m *memObjectStore) Download(ctx context.Context, bucket, key, path string) error {
	if m.downloadErr != nil {
		return m.downloadErr
	}
	m.mu.Lock()
	data, ok := m.objects[objKey(bucket, key)]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("no such object %s/%s", bucket, key)
	}
	return os.WriteFile(path, data, 0o644)
}

func (m *memObjectStore) Upload(ctx context.Context, path, bucket, key string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m.set(bucket, key, data)
	return nil
}

func (m *memObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objKey(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("no such object %s/%s", bucket, key)
	}
	return append([]byte(nil), data...), nil
}

func (m *memObjectStore) PutObject(ctx context.Context, bucket, key string, body io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.set(bucket, key, data)
	return nil
}

func (m *memObjectStore) Delete(ctx context.Context, bucket, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objKey(bucket, key))
	return nil
}

func (m *memObjectStore) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	return "https://signed.example/" + bucket + "/" + key, nil
}

// capturePublisher records everything published to it.
type capturePublisher struct {
	mu       sync.Mutex
	bodies   [][]byte
	subjects []string
	err      error
}

func (p *capturePublisher) Publish(ctx context.Context, body []byte, subject string) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, append([]byte(nil), body...))
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bodies)
}

func (p *capturePublisher) last() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.bodies) == 0 {
		return nil
	}
	return p.bodies[len(p.bodies)-1]
}

// fakeVault simulates the cold tier: archives live in a map, retrieval
// jobs complete after a configurable number of polls, and per-tier
// initiation errors model capacity rejections.
type fakeRetrieval struct {
	archiveID string
	pollsLeft int
}

type fakeVault struct {
	mu         sync.Mutex
	archives   map[string][]byte
	retrievals map[string]*fakeRetrieval
	seq        int

	uploadErr    error
	initiateErrs map[adapter.RetrievalTier]error
	attempts     []adapter.RetrievalTier
	// polls before a new retrieval reports complete
	retrievalPolls int
}

func newFakeVault() *fakeVault {
	return &fakeVault{
		archives:     make(map[string][]byte),
		retrievals:   make(map[string]*fakeRetrieval),
		initiateErrs: make(map[adapter.RetrievalTier]error),
	}
}

func (v *fakeVault) Upload(ctx context.Context, data []byte, description string) (string, error) {
	if v.uploadErr != nil {
		return "", v.uploadErr
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	id := fmt.Sprintf("archive-%d", v.seq)
	v.archives[id] = append([]byte(nil), data...)
	return id, nil
}

func (v *fakeVault) InitiateRetrieval(ctx context.Context, archiveID string, tier adapter.RetrievalTier) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.attempts = append(v.attempts, tier)
	if err := v.initiateErrs[tier]; err != nil {
		return "", err
	}
	if _, ok := v.archives[archiveID]; !ok {
		return "", fmt.Errorf("no such archive %s", archiveID)
	}
	v.seq++
	id := fmt.Sprintf("retrieval-%d", v.seq)
	v.retrievals[id] = &fakeRetrieval{archiveID: archiveID, pollsLeft: v.retrievalPolls}
	return id, nil
}

func (v *fakeVault) RetrievalComplete(ctx context.Context, retrievalID string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.retrievals[retrievalID]
	if !ok {
		return false, fmt.Errorf("no such retrieval %s", retrievalID)
	}
	if r.pollsLeft > 0 {
		r.pollsLeft--
		return false, nil
	}
	return true, nil
}

func (v *fakeVault) RetrievalOutput(ctx context.Context, retrievalID string) (io.ReadCloser, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.retrievals[retrievalID]
	if !ok {
		return nil, fmt.Errorf("no such retrieval %s", retrievalID)
	}
	data, ok := v.archives[r.archiveID]
	if !ok {
		return nil, fmt.Errorf("archive %s expired", r.archiveID)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (v *fakeVault) DeleteArchive(ctx context.Context, archiveID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.archives, archiveID)
	return nil
}

// fakeRunner simulates the annotation subprocess: on Wait it writes the
// two derived output files next to the input, as the real driver does.
type fakeRunner struct {
	mu       sync.Mutex
	starts   int
	startErr error
	runErr   error
	annotate func(inputPath string) error
}

func (r *fakeRunner) Start(ctx context.Context, inputPath, jobID, userID string) (adapter.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.starts++
	return &fakeProcess{runner: r, inputPath: inputPath}, nil
}

func (r *fakeRunner) started() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

type fakeProcess struct {
	runner    *fakeRunner
	inputPath string
}

func (p *fakeProcess) Wait() error {
	if p.runner.runErr != nil {
		return p.runner.runErr
	}
	if p.runner.annotate != nil {
		return p.runner.annotate(p.inputPath)
	}
	return nil
}

// fakeInvoker records restore invocations.
type fakeInvoker struct {
	mu      sync.Mutex
	calls   int
	lastReq adapter.RestoreRequest
	err     error
}

func (f *fakeInvoker) Invoke(ctx context.Context, req adapter.RestoreRequest) (*adapter.RestoreResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	f.lastReq = req
	return &adapter.RestoreResult{Code: 200, Message: "restore complete"}, nil
}

func (f *fakeInvoker) invoked() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
