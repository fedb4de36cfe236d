package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/julienschmidt/httprouter"

	"github.com/alloyengine/peek/internal/snapshot"
	"github.com/alloyengine/peek/internal/storageutil"
	"github.com/alloyengine/peek/internal/view"
)

type getViewsResponse struct {
	Views []view.Node `json:"views"`
}

func (env *environment) getViews(w http.ResponseWriter, r *http.Request) {
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

	s = sentry.StartSpan(ctx, "processing")
	s.Description = "Render root views"
	target, err := snapshot.NewTarget(&snap)
	if err != nil {
		s.Finish()
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	roots := target.Roots()
	views := make([]view.Node, 0, len(roots))
	for _, root := range roots {
		v, err := target.Root(root.Name)
		if err != nil {
			continue
		}
		views = append(views, view.Render(v, env.printers, env.config.RenderMaxDepth))
	}
	s.Finish()

	s = sentry.StartSpan(ctx, "json.marshal")
	defer s.Finish()
	b, err := json.Marshal(getViewsResponse{Views: views})
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

func (env *environment) getView(w http.ResponseWriter, r *http.Request) {
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
	rootName := ps.ByName("root")

	if hub != nil {
		hub.Scope().SetTags(map[string]string{
			"snapshot_id": snapshotID,
			"root":        rootName,
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

	s = sentry.StartSpan(ctx, "processing")
	s.Description = "Render root view"
	target, err := snapshot.NewTarget(&snap)
	if err != nil {
		s.Finish()
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	v, err := target.Root(rootName)
	if err != nil {
		s.Finish()
		if errors.Is(err, snapshot.ErrRootNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	node := view.Render(v, env.printers, env.config.RenderMaxDepth)
	s.Finish()

	s = sentry.StartSpan(ctx, "json.marshal")
	defer s.Finish()
	b, err := json.Marshal(node)
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
