package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/CAFxX/httpcompression"
	"github.com/dgraph-io/badger/v4"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/alloyengine/peek/internal/httputil"
	"github.com/alloyengine/peek/internal/logutil"
	"github.com/alloyengine/peek/internal/printer"
	"github.com/alloyengine/peek/internal/registry"
	"github.com/alloyengine/peek/internal/storageprovider"
	"github.com/alloyengine/peek/internal/storageutil"
)

type environment struct {
	config ServiceConfig

	storage  storageutil.ObjectHandler
	printers *registry.Registry

	readJobs chan storageutil.ReadJob

	gcs      *storage.Client
	badgerDB *badger.DB
	bucket   *blob.Bucket
}

var release string

func newEnvironment() (*environment, error) {
	var e environment
	if err := cleanenv.ReadEnv(&e.config); err != nil {
		return nil, err
	}

	ctx := context.Background()
	var err error
	switch e.config.SnapshotsStore {
	case "gcs":
		e.gcs, err = storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		e.storage = &storageprovider.Gcs{BucketHandle: e.gcs.Bucket(e.config.SnapshotsGCSBucket)}
	case "badger":
		e.badgerDB, err = badger.Open(badger.DefaultOptions(e.config.BadgerPath))
		if err != nil {
			return nil, err
		}
		e.storage = &storageprovider.Badger{DB: e.badgerDB}
	case "bucket":
		e.bucket, err = blob.OpenBucket(ctx, e.config.SnapshotsBucketURL)
		if err != nil {
			return nil, err
		}
		e.storage = &storageprovider.Blob{Bucket: e.bucket}
	default:
		return nil, fmt.Errorf("unknown snapshots store %q", e.config.SnapshotsStore)
	}

	e.printers = printer.Default()

	return &e, nil
}

// startReadPool spawns the workers consuming snapshot read jobs submitted
// by the timeline endpoint.
func (e *environment) startReadPool() {
	e.readJobs = make(chan storageutil.ReadJob, e.config.ReadWorkers)
	for i := 0; i < e.config.ReadWorkers; i++ {
		go func() {
			for job := range e.readJobs {
				job.Read()
			}
		}()
	}
}

func (e *environment) shutdown() {
	if e.gcs != nil {
		if err := e.gcs.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	if e.badgerDB != nil {
		if err := e.badgerDB.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	if e.bucket != nil {
		if err := e.bucket.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	sentry.Flush(5 * time.Second)
}

func (e *environment) newRouter() (*httprouter.Router, error) {
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}

	routes := []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/health", e.getHealth},
		{http.MethodPost, "/organizations/:organization_id/projects/:project_id/snapshots", e.postSnapshot},
		{http.MethodGet, "/organizations/:organization_id/projects/:project_id/snapshots/:snapshot_id", e.getSnapshot},
		{http.MethodGet, "/organizations/:organization_id/projects/:project_id/snapshots/:snapshot_id/views", e.getViews},
		{http.MethodGet, "/organizations/:organization_id/projects/:project_id/snapshots/:snapshot_id/views/:root", e.getView},
		{http.MethodPost, "/organizations/:organization_id/projects/:project_id/timeline", e.postTimeline},
	}

	router := httprouter.New()

	for _, route := range routes {
		handlerFunc := httputil.DecompressPayload(route.handler)
		handler := compress(handlerFunc)

		router.Handler(route.method, route.path, handler)
	}

	return router, nil
}

func main() {
	logutil.ConfigureLogger()

	env, err := newEnvironment()
	if err != nil {
		log.Fatal().Err(err).Msg("error setting up environment")
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:                   env.config.SentryDSN,
		EnableTracing:         true,
		Environment:           env.config.Environment,
		Release:               release,
		TracesSampleRate:      1.0,
		BeforeSendTransaction: httputil.SetHTTPStatusCodeTag,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("can't initialize sentry")
	}

	env.startReadPool()

	router, err := env.newRouter()
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Msg("error setting up the router")
	}

	server := http.Server{
		Addr:    ":" + strconv.Itoa(env.config.Port),
		Handler: sentryhttp.New(sentryhttp.Options{}).Handle(router),
	}

	waitForShutdown := make(chan os.Signal)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(cctx); err != nil {
			sentry.CaptureException(err)
			log.Err(err).Msg("error shutting down server")
		}

		close(waitForShutdown)
	}()

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		sentry.CaptureException(err)
		log.Err(err).Msg("server failed")
	}

	<-waitForShutdown

	// Shutdown the rest of the environment after the HTTP connections are closed
	env.shutdown()
}

func (e *environment) getHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
