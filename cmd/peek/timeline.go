package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/julienschmidt/httprouter"

	"github.com/alloyengine/peek/internal/snapshot"
	"github.com/alloyengine/peek/internal/storageutil"
	"github.com/alloyengine/peek/internal/timeutil"
	"github.com/alloyengine/peek/internal/view"
)

type (
	postTimelineRequestBody struct {
		SnapshotIDs []string `json:"snapshot_ids"`
		Root        string   `json:"root"`
	}

	TimelinePoint struct {
		SnapshotID string        `json:"snapshot_id"`
		Timestamp  timeutil.Time `json:"timestamp"`
		Summary    string        `json:"summary"`
	}

	postTimelineResponse struct {
		Points []TimelinePoint `json:"points"`
	}
)

// postTimeline renders the summary of one root across many snapshots. Reads
// go through the shared worker pool and missing snapshots are skipped, so a
// partially expired retention window still produces the surviving points.
func (env *environment) postTimeline(w http.ResponseWriter, r *http.Request) {
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

	var body postTimelineRequestBody
	s := sentry.StartSpan(ctx, "json.unmarshal")
	s.Description = "Decoding data"
	err = json.NewDecoder(r.Body).Decode(&body)
	s.Finish()
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Root == "" || len(body.SnapshotIDs) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	rctx, cancel := context.WithTimeout(ctx, env.config.ReadTimeout)
	defer cancel()

	s = sentry.StartSpan(ctx, "storage.read")
	s.Description = "Read snapshots"
	results := make(chan storageutil.ReadJobResult, len(body.SnapshotIDs))
	for _, snapshotID := range body.SnapshotIDs {
		env.readJobs <- snapshot.ReadJob{
			Ctx:            rctx,
			Storage:        env.storage,
			OrganizationID: organizationID,
			ProjectID:      projectID,
			SnapshotID:     snapshotID,
			Result:         results,
		}
	}

	// Every job sends exactly one result, so drain them all before
	// deciding the response. Closing the channel earlier would crash the
	// workers still reading.
	var timedOut bool
	snapshots := make(map[string]snapshot.Snapshot, len(body.SnapshotIDs))
	for i := 0; i < len(body.SnapshotIDs); i++ {
		res := <-results
		if err := res.Error(); err != nil {
			if errors.Is(err, storageutil.ErrObjectNotFound) {
				continue
			}
			if errors.Is(err, context.DeadlineExceeded) {
				timedOut = true
				continue
			}
			if hub != nil {
				hub.CaptureException(err)
			}
			continue
		}
		result, ok := res.(snapshot.ReadJobResult)
		if !ok {
			continue
		}
		snapshots[result.SnapshotID] = result.Snapshot
	}
	close(results)
	s.Finish()

	if timedOut {
		// This is a transient error, we'll retry
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}

	s = sentry.StartSpan(ctx, "processing")
	s.Description = "Render timeline points"
	points := make([]TimelinePoint, 0, len(body.SnapshotIDs))
	for _, snapshotID := range body.SnapshotIDs {
		snap, exists := snapshots[snapshotID]
		if !exists {
			continue
		}
		target, err := snapshot.NewTarget(&snap)
		if err != nil {
			if hub != nil {
				hub.CaptureException(err)
			}
			continue
		}
		v, err := target.Root(body.Root)
		if err != nil {
			continue
		}
		points = append(points, TimelinePoint{
			SnapshotID: snapshotID,
			Timestamp:  snap.Timestamp,
			Summary:    view.Summarize(v, env.printers),
		})
	}
	s.Finish()

	s = sentry.StartSpan(ctx, "json.marshal")
	defer s.Finish()
	b, err := json.Marshal(postTimelineResponse{Points: points})
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
