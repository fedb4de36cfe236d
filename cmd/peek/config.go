package main

import "time"

type ServiceConfig struct {
	Environment string `env:"SENTRY_ENVIRONMENT" env-default:"development"`

	Port int `env:"PORT" env-default:"8080"`

	SentryDSN string `env:"SENTRY_DSN"`

	// SnapshotsStore selects the storage provider: "bucket" opens a
	// gocloud.dev bucket URL, "gcs" a Google Cloud Storage bucket,
	// "badger" a local BadgerDB.
	SnapshotsStore     string `env:"PEEK_SNAPSHOTS_STORE" env-default:"bucket"`
	SnapshotsBucketURL string `env:"PEEK_SNAPSHOTS_BUCKET_URL" env-default:"file://./snapshots?create_dir=1"`
	SnapshotsGCSBucket string `env:"PEEK_SNAPSHOTS_GCS_BUCKET" env-default:"alloy-peek-snapshots"`
	BadgerPath         string `env:"PEEK_BADGER_PATH" env-default:"./peek-badger"`

	ReadWorkers    int           `env:"PEEK_READ_WORKERS" env-default:"16"`
	ReadTimeout    time.Duration `env:"PEEK_READ_TIMEOUT" env-default:"10s"`
	RenderMaxDepth int           `env:"PEEK_RENDER_MAX_DEPTH" env-default:"8"`
}
