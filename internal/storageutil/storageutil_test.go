package storageutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/google/uuid"
	"github.com/phayes/freeport"
	"github.com/pierrec/lz4/v4"

	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	"github.com/alloyengine/peek/internal/storageprovider"
	"github.com/alloyengine/peek/internal/storageutil"
	"github.com/alloyengine/peek/internal/testutil"
)

const bucketName = "snapshots"

var (
	gcsServer *fakestorage.Server
	badgerDB  *badger.DB
	memBucket *blob.Bucket
)

// capture stands in for a stored snapshot body without pulling the real
// model into the test.
type capture struct {
	Regions [][]byte `json:"regions"`
	Roots   []string `json:"roots"`
}

func TestMain(m *testing.M) {
	port, err := freeport.GetFreePort()
	if err != nil {
		log.Fatalf("no free port found: %v", err)
	}
	publicHost := fmt.Sprintf("127.0.0.1:%d", port)
	gcsServer, err = fakestorage.NewServerWithOptions(fakestorage.Options{
		PublicHost: publicHost,
		Host:       "127.0.0.1",
		Port:       uint16(port),
		Scheme:     "http",
	})
	if err != nil {
		log.Fatalf("couldn't set up gcs server: %v", err)
	}
	os.Setenv("STORAGE_EMULATOR_HOST", publicHost)
	gcsServer.CreateBucketWithOpts(fakestorage.CreateBucketOpts{Name: bucketName})

	badgerDB, err = badger.Open(badger.DefaultOptions("").WithInMemory(true))
	if err != nil {
		log.Fatalf("couldn't create an in-memory badgerdb: %s", err.Error())
	}

	memBucket, err = blob.OpenBucket(context.Background(), "mem://")
	if err != nil {
		log.Fatalf("couldn't open an in-memory bucket: %s", err.Error())
	}

	code := m.Run()

	err = badgerDB.Close()
	if err != nil {
		log.Printf("closing in-memory badgerdb: %s", err.Error())
	}
	if err := memBucket.Close(); err != nil {
		log.Printf("closing in-memory bucket: %s", err.Error())
	}

	os.Exit(code)
}

func TestUploadSnapshot(t *testing.T) {
	ctx := context.Background()
	objectName := uuid.New().String()
	originalData := capture{
		Regions: [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}},
		Roots:   []string{"orientation", "position"},
	}

	t.Run("GCS", func(t *testing.T) {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			t.Fatalf("we should be able to create a client: %v", err)
		}
		bucket := storageClient.Bucket(bucketName)
		err = storageutil.CompressedWrite(ctx, &storageprovider.Gcs{BucketHandle: bucket}, objectName, originalData)
		if err != nil {
			t.Fatalf("we should be able to write: %v", err)
		}

		// read the raw object back and check it really is an lz4 envelope
		object, err := gcsServer.GetObject(bucketName, objectName)
		if err != nil {
			t.Fatalf("we should be able to read the object: %v", err)
		}
		r := lz4.NewReader(bytes.NewBuffer(object.Content))
		uncompressedData, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("we should be able to uncompress the data: %v", err)
		}
		b, err := json.Marshal(originalData)
		if err != nil {
			t.Fatalf("we should be able to marshal this: %v", err)
		}
		if !bytes.Equal(b, bytes.TrimSpace(uncompressedData)) {
			t.Fatal("data should be identical")
		}

		var stored capture
		err = storageutil.UnmarshalCompressed(ctx, &storageprovider.Gcs{BucketHandle: bucket}, objectName, &stored)
		if err != nil {
			t.Fatalf("we should be able to read the object: %v", err)
		}
		if diff := testutil.Diff(originalData, stored); diff != "" {
			t.Fatalf("Result mismatch: got - want +\n%s", diff)
		}
	})

	t.Run("Badger", func(t *testing.T) {
		err := storageutil.CompressedWrite(ctx, &storageprovider.Badger{DB: badgerDB}, objectName, originalData)
		if err != nil {
			t.Fatalf("we should be able to write: %s", err.Error())
		}

		var stored capture
		err = storageutil.UnmarshalCompressed(ctx, &storageprovider.Badger{DB: badgerDB}, objectName, &stored)
		if err != nil {
			t.Fatalf("we should be able to read the object: %v", err)
		}
		if diff := testutil.Diff(originalData, stored); diff != "" {
			t.Fatalf("Result mismatch: got - want +\n%s", diff)
		}
	})

	t.Run("Bucket", func(t *testing.T) {
		err := storageutil.CompressedWrite(ctx, &storageprovider.Blob{Bucket: memBucket}, objectName, originalData)
		if err != nil {
			t.Fatalf("we should be able to write: %s", err.Error())
		}

		var stored capture
		err = storageutil.UnmarshalCompressed(ctx, &storageprovider.Blob{Bucket: memBucket}, objectName, &stored)
		if err != nil {
			t.Fatalf("we should be able to read the object: %v", err)
		}
		if diff := testutil.Diff(originalData, stored); diff != "" {
			t.Fatalf("Result mismatch: got - want +\n%s", diff)
		}
	})
}

func TestObjectNotFound(t *testing.T) {
	ctx := context.Background()

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		t.Fatalf("we should be able to create a client: %v", err)
	}

	handlers := []struct {
		name    string
		handler storageutil.ObjectHandler
	}{
		{
			name:    "GCS",
			handler: &storageprovider.Gcs{BucketHandle: storageClient.Bucket(bucketName)},
		},
		{
			name:    "Badger",
			handler: &storageprovider.Badger{DB: badgerDB},
		},
		{
			name:    "Bucket",
			handler: &storageprovider.Blob{Bucket: memBucket},
		},
	}

	for _, test := range handlers {
		t.Run(test.name, func(t *testing.T) {
			var stored capture
			err := storageutil.UnmarshalCompressed(ctx, test.handler, uuid.New().String(), &stored)
			if !errors.Is(err, storageutil.ErrObjectNotFound) {
				t.Fatalf("Expected ErrObjectNotFound. Found: %v", err)
			}
		})
	}
}

func benchmarkPayload(b *testing.B) []byte {
	regions := make([][]byte, 64)
	for i := range regions {
		regions[i] = bytes.Repeat([]byte{byte(i)}, 1024)
	}
	payload, err := json.Marshal(capture{
		Regions: regions,
		Roots:   []string{"camera", "orientation", "position"},
	})
	if err != nil {
		b.Fatal(err)
	}
	return payload
}

func BenchmarkGoJSON(b *testing.B) {
	payload := benchmarkPayload(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var result capture
		if err := gojson.Unmarshal(payload, &result); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkJsonIterator(b *testing.B) {
	payload := benchmarkPayload(b)
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		var result capture
		if err := jsoniter.Unmarshal(payload, &result); err != nil {
			b.Fatal(err)
		}
	}
}
