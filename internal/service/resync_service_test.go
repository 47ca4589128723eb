package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
	"github.com/brightpath-edu/study-scheduler-api/pkg/config"
	"github.com/brightpath-edu/study-scheduler-api/pkg/jobs"
)

func testResyncConfig() config.ResyncConfig {
	return config.ResyncConfig{Enabled: true, Workers: 1, MaxRetries: 2, RetryDelay: 0}
}

func pendingLocalEntry(t *testing.T, upstream *upstreamStub, journal *journalStub) (*PlannerService, *models.ScheduleEntry) {
	t.Helper()
	upstream.createErr = transientStubErr()
	planner := newTestPlanner(upstream, journal)
	registerFamily(t, planner, "a")
	entry, err := planner.CreateEntry(context.Background(), "fam-1", createReq("a", "2024-01-08", "09:00", 30))
	require.NoError(t, err)
	require.Equal(t, models.SyncPendingLocal, entry.SyncState)
	upstream.createErr = nil
	return planner, entry
}

func TestResyncServiceCreateConfirmsAndCleansJournal(t *testing.T) {
	upstream := &upstreamStub{}
	journal := &journalStub{}
	planner, entry := pendingLocalEntry(t, upstream, journal)
	resync := NewResyncService(upstream, journal, planner, nil, testResyncConfig(), nil)

	err := resync.handle(context.Background(), jobs.Job{ID: entry.ID, Type: resyncOpCreate, Payload: resyncPayload{
		Op: resyncOpCreate, FamilyID: "fam-1", EntryID: entry.ID, Entry: *entry,
	}})
	require.NoError(t, err)

	snapshot, err := planner.Snapshot(context.Background(), "fam-1")
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, models.SyncConfirmed, snapshot.Entries[0].SyncState)
	assert.Equal(t, 0, snapshot.PendingSync)
	assert.Contains(t, journal.deleted, entry.ID)
}

func TestResyncServiceConflictParksEntry(t *testing.T) {
	upstream := &upstreamStub{}
	journal := &journalStub{}
	planner, entry := pendingLocalEntry(t, upstream, journal)
	upstream.createErr = conflictStubErr("slot taken meanwhile")
	resync := NewResyncService(upstream, journal, planner, nil, testResyncConfig(), nil)

	err := resync.handle(context.Background(), jobs.Job{ID: entry.ID, Type: resyncOpCreate, Payload: resyncPayload{
		Op: resyncOpCreate, FamilyID: "fam-1", EntryID: entry.ID, Entry: *entry,
	}})
	require.NoError(t, err, "a conflict verdict is final, not retried")

	snapshot, err := planner.Snapshot(context.Background(), "fam-1")
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, models.SyncConflicted, snapshot.Entries[0].SyncState)
	assert.Equal(t, "slot taken meanwhile", snapshot.Entries[0].Notes)
	assert.Equal(t, models.SyncConflicted, journal.saved[entry.ID].SyncState)
}

func TestResyncServiceTransientFailureRetries(t *testing.T) {
	upstream := &upstreamStub{}
	journal := &journalStub{}
	planner, entry := pendingLocalEntry(t, upstream, journal)
	upstream.createErr = transientStubErr()
	resync := NewResyncService(upstream, journal, planner, nil, testResyncConfig(), nil)

	err := resync.handle(context.Background(), jobs.Job{ID: entry.ID, Type: resyncOpCreate, Payload: resyncPayload{
		Op: resyncOpCreate, FamilyID: "fam-1", EntryID: entry.ID, Entry: *entry,
	}})
	require.Error(t, err, "transient failures bubble up so the queue retries")
}

func TestResyncServiceUpdateFallsBackToCreateWhenUnknownUpstream(t *testing.T) {
	upstream := &upstreamStub{}
	journal := &journalStub{}
	planner, entry := pendingLocalEntry(t, upstream, journal)
	resync := NewResyncService(upstream, journal, planner, nil, testResyncConfig(), nil)

	err := resync.handle(context.Background(), jobs.Job{ID: entry.ID, Type: resyncOpUpdate, Payload: resyncPayload{
		Op: resyncOpUpdate, FamilyID: "fam-1", EntryID: entry.ID, Entry: *entry,
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.createCalls, "one failed optimistic create plus the fallback push")

	snapshot, err := planner.Snapshot(context.Background(), "fam-1")
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, models.SyncConfirmed, snapshot.Entries[0].SyncState)
}

func TestResyncServiceDeleteTreatsMissingAsDone(t *testing.T) {
	upstream := &upstreamStub{}
	resync := NewResyncService(upstream, &journalStub{}, nil, nil, testResyncConfig(), nil)

	err := resync.handle(context.Background(), jobs.Job{ID: "gone", Type: resyncOpDelete, Payload: resyncPayload{
		Op: resyncOpDelete, FamilyID: "fam-1", EntryID: "gone",
	}})
	require.NoError(t, err)
}
