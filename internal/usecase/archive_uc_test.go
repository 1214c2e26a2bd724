// File: internal/usecase/archive_uc_test.go
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
)

func archiveBody(t *testing.T, ev model.ArchiveEvent) []byte {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body
}

func seedCompletedJob(jobs *memJobRepo, store *memObjectStore, jobID, userID string, data []byte) model.ArchiveEvent {
	key := "gas/" + userID + "/sample.annot.vcf"
	store.set("results", key, data)
	jobs.put(&model.JobRecord{
		JobID: jobID, UserID: userID, InputFileName: "sample.vcf",
		JobStatus:       model.JobStatusCompleted,
		S3ResultsBucket: "results", S3KeyResultFile: key,
	})
	return model.ArchiveEvent{JobID: jobID, UserID: userID, S3BucketName: "results", ResultsS3Key: key}
}

func TestArchiveUseCase_FreeUserResultArchived(t *testing.T) {
	jobs := newMemJobRepo()
	users := newMemUserRepo()
	store := newMemObjectStore()
	vault := newFakeVault()

	users.add(&model.UserProfile{ID: "u1", Role: model.RoleFree})
	ev := seedCompletedJob(jobs, store, "job-1", "u1", []byte("annotated bytes"))

	uc := NewArchiveUseCase(jobs, users, store, vault, nopLogger())
	res := uc.HandleRequest(context.Background(), archiveBody(t, ev))
	assert.Equal(t, ResultOK, res)

	rec := jobs.get("job-1")
	require.NotNil(t, rec)
	assert.Equal(t, model.JobStatusArchived, rec.JobStatus)
	assert.NotEmpty(t, rec.ResultsFileArchiveID)

	// Exactly one of the two copies exists: cold has it, hot does not.
	assert.False(t, store.has("results", ev.ResultsS3Key))
	assert.Equal(t, []byte("annotated bytes"), vault.archives[rec.ResultsFileArchiveID])
}

func TestArchiveUseCase_PremiumUserSkipped(t *testing.T) {
	jobs := newMemJobRepo()
	users := newMemUserRepo()
	store := newMemObjectStore()
	vault := newFakeVault()

	users.add(&model.UserProfile{ID: "u1", Role: model.RolePremium})
	ev := seedCompletedJob(jobs, store, "job-1", "u1", []byte("annotated bytes"))

	uc := NewArchiveUseCase(jobs, users, store, vault, nopLogger())
	res := uc.HandleRequest(context.Background(), archiveBody(t, ev))

	// Stale request: acknowledged, result stays hot, record untouched.
	assert.Equal(t, ResultOK, res)
	assert.True(t, store.has("results", ev.ResultsS3Key))
	assert.Empty(t, vault.archives)
	assert.Equal(t, model.JobStatusCompleted, jobs.get("job-1").JobStatus)
}

func TestArchiveUseCase_MessageHandling(t *testing.T) {
	t.Run("malformed body is dropped", func(t *testing.T) {
		uc := NewArchiveUseCase(newMemJobRepo(), newMemUserRepo(), newMemObjectStore(), newFakeVault(), nopLogger())
		assert.Equal(t, ResultDrop, uc.HandleRequest(context.Background(), []byte("not json")))
	})

	t.Run("missing location is dropped", func(t *testing.T) {
		uc := NewArchiveUseCase(newMemJobRepo(), newMemUserRepo(), newMemObjectStore(), newFakeVault(), nopLogger())
		body := archiveBody(t, model.ArchiveEvent{JobID: "job-1", UserID: "u1"})
		assert.Equal(t, ResultDrop, uc.HandleRequest(context.Background(), body))
	})

	t.Run("unknown user is dropped", func(t *testing.T) {
		uc := NewArchiveUseCase(newMemJobRepo(), newMemUserRepo(), newMemObjectStore(), newFakeVault(), nopLogger())
		body := archiveBody(t, model.ArchiveEvent{JobID: "job-1", UserID: "ghost", S3BucketName: "results", ResultsS3Key: "k"})
		assert.Equal(t, ResultDrop, uc.HandleRequest(context.Background(), body))
	})

	t.Run("profile lookup error leaves message for redelivery", func(t *testing.T) {
		users := newMemUserRepo()
		users.findErr = errors.New("db down")
		uc := NewArchiveUseCase(newMemJobRepo(), users, newMemObjectStore(), newFakeVault(), nopLogger())
		body := archiveBody(t, model.ArchiveEvent{JobID: "job-1", UserID: "u1", S3BucketName: "results", ResultsS3Key: "k"})
		assert.Equal(t, ResultRetry, uc.HandleRequest(context.Background(), body))
	})

	t.Run("hot fetch failure leaves message for redelivery", func(t *testing.T) {
		jobs := newMemJobRepo()
		users := newMemUserRepo()
		users.add(&model.UserProfile{ID: "u1", Role: model.RoleFree})
		store := newMemObjectStore()
		ev := seedCompletedJob(jobs, store, "job-1", "u1", []byte("x"))
		store.getErr = errors.New("timeout")
		uc := NewArchiveUseCase(jobs, users, store, newFakeVault(), nopLogger())
		assert.Equal(t, ResultRetry, uc.HandleRequest(context.Background(), archiveBody(t, ev)))
	})

	t.Run("already archived hot copy is acknowledged", func(t *testing.T) {
		jobs := newMemJobRepo()
		users := newMemUserRepo()
		users.add(&model.UserProfile{ID: "u1", Role: model.RoleFree})
		store := newMemObjectStore()
		ev := seedCompletedJob(jobs, store, "job-1", "u1", []byte("x"))
		store.getErr = domain.ErrNotFound
		vault := newFakeVault()
		uc := NewArchiveUseCase(jobs, users, store, vault, nopLogger())
		assert.Equal(t, ResultOK, uc.HandleRequest(context.Background(), archiveBody(t, ev)))
		assert.Empty(t, vault.archives)
	})

	t.Run("vault upload failure leaves message for redelivery", func(t *testing.T) {
		jobs := newMemJobRepo()
		users := newMemUserRepo()
		users.add(&model.UserProfile{ID: "u1", Role: model.RoleFree})
		store := newMemObjectStore()
		ev := seedCompletedJob(jobs, store, "job-1", "u1", []byte("x"))
		vault := newFakeVault()
		vault.uploadErr = errors.New("service unavailable")
		uc := NewArchiveUseCase(jobs, users, store, vault, nopLogger())
		assert.Equal(t, ResultRetry, uc.HandleRequest(context.Background(), archiveBody(t, ev)))
		// Nothing changed; redelivery starts clean.
		assert.True(t, store.has("results", ev.ResultsS3Key))
		assert.Equal(t, model.JobStatusCompleted, jobs.get("job-1").JobStatus)
	})
}

func TestArchiveUseCase_AcksAfterUploadDespitePartialFailures(t *testing.T) {
	jobs := newMemJobRepo()
	users := newMemUserRepo()
	users.add(&model.UserProfile{ID: "u1", Role: model.RoleFree})
	store := newMemObjectStore()
	vault := newFakeVault()
	ev := seedCompletedJob(jobs, store, "job-1", "u1", []byte("x"))

	// Once the archive exists, a failed hot delete must not trigger
	// redelivery (that would create a second archive).
	store.deleteErr = errors.New("access denied")

	uc := NewArchiveUseCase(jobs, users, store, vault, nopLogger())
	res := uc.HandleRequest(context.Background(), archiveBody(t, ev))
	assert.Equal(t, ResultOK, res)
	assert.Len(t, vault.archives, 1)
	assert.Equal(t, model.JobStatusArchived, jobs.get("job-1").JobStatus)
}
