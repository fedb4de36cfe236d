package snapshot

import (
	"context"

	"github.com/alloyengine/peek/internal/storageutil"
)

type (
	ReadJob struct {
		Ctx            context.Context
		Storage        storageutil.ObjectHandler
		OrganizationID uint64
		ProjectID      uint64
		SnapshotID     string
		Result         chan<- storageutil.ReadJobResult
	}

	ReadJobResult struct {
		Err        error
		Snapshot   Snapshot
		SnapshotID string
	}
)

func (job ReadJob) Read() {
	var s Snapshot

	err := storageutil.UnmarshalCompressed(
		job.Ctx,
		job.Storage,
		StoragePath(job.OrganizationID, job.ProjectID, job.SnapshotID),
		&s,
	)

	job.Result <- ReadJobResult{
		Err:        err,
		Snapshot:   s,
		SnapshotID: job.SnapshotID,
	}
}

func (result ReadJobResult) Error() error {
	return result.Err
}
