// Command downloader pulls snapshots out of the service's GCS bucket for
// offline inspection.
//
// It reads storage paths, one per line, and mirrors the objects under the
// destination directory. Objects are stored as lz4 compressed JSON, so the
// downloaded files can be fed straight to the inspect command.
//
//	./downloader <file of storage paths> <destination directory>
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"

	"github.com/alloyengine/peek/internal/logutil"
)

const workersCount = 128

func download(client *storage.Client, bucketName, root string, objects chan string, errorsChan chan error, wg *sync.WaitGroup) {
	defer wg.Done()

	b := client.Bucket(bucketName)
	for objectName := range objects {
		parts := strings.Split(objectName, "/")
		count := len(parts)
		if count < 3 {
			errorsChan <- fmt.Errorf("not a snapshot storage path: %q", objectName)
			continue
		}
		dirPath := fmt.Sprintf("%s/%s/%s", root, parts[count-3], parts[count-2])

		if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
			err := os.MkdirAll(dirPath, 0755)
			if err != nil {
				errorsChan <- err
				continue
			}
		}

		objectName := fmt.Sprintf("%s/%s/%s", parts[count-3], parts[count-2], parts[count-1])
		fileName := fmt.Sprintf("%s.json.lz4", objectName)
		path := fmt.Sprintf("%s/%s", root, fileName)

		if _, err := os.Stat(path); err == nil {
			continue
		}

		f, err := os.Create(path)
		if err != nil {
			errorsChan <- err
			continue
		}

		ctx := context.Background()
		rc, err := b.Object(objectName).NewReader(ctx)
		if err != nil {
			errorsChan <- err
			continue
		}

		if _, err := io.Copy(f, rc); err != nil {
			errorsChan <- err
			continue
		}

		err = rc.Close()
		if err != nil {
			errorsChan <- err
			continue
		}

		err = f.Close()
		if err != nil {
			errorsChan <- err
			continue
		}

		log.Info().Str("object", objectName).Msg("downloaded")
	}
}

func main() {
	args := os.Args[1:]
	if len(args) != 2 {
		fmt.Println("./downloader <file of storage paths> <destination directory>")
		return
	}

	logutil.ConfigureLogger()

	bucketName, ok := os.LookupEnv("PEEK_SNAPSHOTS_GCS_BUCKET")
	if !ok {
		bucketName = "alloy-peek-snapshots"
	}

	ctx := context.Background()
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("can't initialize the GCS client")
	}
	defer storageClient.Close()

	objectPathList := args[0]
	destination := args[1]
	file, err := os.Open(objectPathList)
	if err != nil {
		log.Fatal().Err(err).Msg("can't open the storage path list")
	}
	defer file.Close()

	var wg sync.WaitGroup

	objects := make(chan string)
	errorsChan := make(chan error)
	for i := 0; i < workersCount; i++ {
		wg.Add(1)
		go download(storageClient, bucketName, destination, objects, errorsChan, &wg)
	}

	go func() {
		for err := range errorsChan {
			log.Error().Err(err).Msg("download failed")
		}
	}()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		objectName := strings.TrimSpace(scanner.Text())
		if objectName == "" {
			continue
		}
		objects <- objectName
	}

	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("can't read the storage path list")
	}

	close(objects)
	wg.Wait()
	close(errorsChan)
}
