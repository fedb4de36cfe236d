// Command cleanup removes snapshots that fell out of the retention window.
//
// Self-hosted deployments keep snapshots on the local filesystem through the
// fileblob bucket and nothing expires them, so this runs alongside the
// service and prunes the directory daily. Hosted deployments should rely on
// bucket lifecycle rules instead.
package main

import (
	"errors"
	"os"
	"os/signal"
	"path"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/alloyengine/peek/internal/logutil"
)

func cleanup(snapshotsPath string, timeLimit time.Time) error {
	dirEntries, err := os.ReadDir(snapshotsPath)
	if err != nil {
		return err
	}

	for _, entry := range dirEntries {
		if entry.IsDir() {
			if err := cleanup(path.Join(snapshotsPath, entry.Name()), timeLimit); err != nil {
				return err
			}
			continue
		}

		fileInfo, err := entry.Info()
		if err != nil {
			// the file can legitimately disappear between the listing
			// and here
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}

		if timeLimit.After(fileInfo.ModTime()) {
			err = os.Remove(path.Join(snapshotsPath, entry.Name()))
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func main() {
	snapshotsPath, ok := os.LookupEnv("PEEK_SNAPSHOTS_PATH")
	if !ok {
		snapshotsPath = "/var/lib/alloy-snapshots"
	}

	snapshotRetentionDays, ok := os.LookupEnv("PEEK_SNAPSHOT_RETENTION_DAYS")
	if !ok {
		snapshotRetentionDays = "30"
	}

	logutil.ConfigureLogger()

	err := sentry.Init(sentry.ClientOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("can't initialize sentry")
	}

	retentionDays, err := strconv.ParseInt(snapshotRetentionDays, 10, 64)
	if err != nil {
		log.Fatal().Err(err).Msg("can't parse retention days")
	}

	c := cron.New()
	_, err = c.AddFunc("@daily", func() {
		timeLimit := time.Now().Add(time.Hour * 24 * -1 * time.Duration(retentionDays))
		err := cleanup(snapshotsPath, timeLimit)
		if err != nil {
			sentry.CaptureException(err)
			log.Error().Err(err).Msg("error cleaning up snapshots")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("can't set up cron function")
	}

	exitSignal := make(chan os.Signal, 1)
	signal.Notify(exitSignal, os.Interrupt)

	go func() {
		<-exitSignal

		c.Stop()
	}()

	c.Run()
}
