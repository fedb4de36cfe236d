package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/julienschmidt/httprouter"
	"gocloud.dev/gcerrors"

	"github.com/alloyengine/peek/internal/snapshot"
	"github.com/alloyengine/peek/internal/storageutil"
)

type postSnapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

func (env *environment) postSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)
	ps := httprouter.ParamsFromContext(ctx)

	organizationID, err := strconv.ParseUint(ps.ByName("organization_id"), 10, 64)
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	projectID, err := strconv.ParseUint(ps.ByName("project_id"), 10, 64)
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s := sentry.StartSpan(ctx, "processing")
	s.Description = "Read HTTP body"
	body, err := io.ReadAll(r.Body)
	s.Finish()
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var snap snapshot.Snapshot
	s = sentry.StartSpan(ctx, "json.unmarshal")
	s.Description = "Unmarshal snapshot"
	err = json.Unmarshal(body, &snap)
	s.Finish()
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	snap.OrganizationID = organizationID
	snap.ProjectID = projectID
	snap.Normalize()

	if err := snap.Validate(); err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if hub != nil {
		hub.Scope().SetContext("Snapshot metadata", map[string]interface{}{
			"organization_id": strconv.FormatUint(snap.OrganizationID, 10),
			"project_id":      strconv.FormatUint(snap.ProjectID, 10),
			"snapshot_id":     snap.ID,
			"regions":         len(snap.Regions),
			"roots":           len(snap.Roots),
			"size":            len(body),
		})
		hub.Scope().SetTags(map[string]string{
			"platform": string(snap.Platform),
		})
	}

	s = sentry.StartSpan(ctx, "storage.write")
	s.Description = "Write snapshot to storage"
	err = storageutil.CompressedWrite(ctx, env.storage, snap.StoragePath(), snap)
	s.Finish()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// This is a transient error, we'll retry
			w.WriteHeader(http.StatusTooManyRequests)
		} else {
			// These errors won't be retried
			if hub != nil {
				hub.CaptureException(err)
			}
			if code := gcerrors.Code(err); code == gcerrors.FailedPrecondition {
				w.WriteHeader(http.StatusPreconditionFailed)
			} else {
				w.WriteHeader(http.StatusInternalServerError)
			}
		}
		return
	}

	s = sentry.StartSpan(ctx, "json.marshal")
	defer s.Finish()
	b, err := json.Marshal(postSnapshotResponse{SnapshotID: snap.ID})
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (env *environment) getSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)
	ps := httprouter.ParamsFromContext(ctx)

	organizationID, err := strconv.ParseUint(ps.ByName("organization_id"), 10, 64)
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	projectID, err := strconv.ParseUint(ps.ByName("project_id"), 10, 64)
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	snapshotID := ps.ByName("snapshot_id")

	if hub != nil {
		hub.Scope().SetTags(map[string]string{
			"snapshot_id": snapshotID,
		})
	}

	var snap snapshot.Snapshot
	s := sentry.StartSpan(ctx, "storage.read")
	s.Description = "Read snapshot from storage"
	err = storageutil.UnmarshalCompressed(
		ctx,
		env.storage,
		snapshot.StoragePath(organizationID, projectID, snapshotID),
		&snap,
	)
	s.Finish()
	if err != nil {
		if errors.Is(err, storageutil.ErrObjectNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s = sentry.StartSpan(ctx, "json.marshal")
	defer s.Finish()
	b, err := json.Marshal(snap)
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
