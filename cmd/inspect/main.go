// Command inspect renders the values captured in snapshot files without a
// running service.
//
// Usage:
//
//	inspect [flags] <path ...>
//
// Paths may be snapshot JSON files, lz4-compressed snapshots as the service
// stores them (.lz4), or directories to walk.
//
// Examples:
//
//	inspect snapshot.json
//	inspect -root orientation ./snapshots
//	inspect -format json -depth 2 capture.json.lz4
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alloyengine/peek/internal/printer"
	"github.com/alloyengine/peek/internal/registry"
	"github.com/alloyengine/peek/internal/snapshot"
	"github.com/alloyengine/peek/internal/view"
)

const workersCount int = 8

type options struct {
	root   string
	format string
	depth  int
}

func main() {
	rootName := flag.String("root", "", "render only this root")
	format := flag.String("format", "text", "output format, text or json")
	depth := flag.Int("depth", 8, "how deep to expand children")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect [flags] <path ...>")
		os.Exit(1)
	}
	if *format != "text" && *format != "json" {
		log.Fatal().Str("format", *format).Msg("unknown output format")
	}

	opts := options{
		root:   *rootName,
		format: *format,
		depth:  *depth,
	}
	printers := printer.Default()

	pathChannel := make(chan string, workersCount)
	outputChannel := make(chan []byte, workersCount)

	done := make(chan struct{})
	go func() {
		for b := range outputChannel {
			_, _ = os.Stdout.Write(b)
		}
		close(done)
	}()

	var wg sync.WaitGroup
	for w := 0; w < workersCount; w++ {
		wg.Add(1)
		go inspectSnapshots(pathChannel, outputChannel, printers, opts, &wg)
	}

	for _, root := range flag.Args() {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			pathChannel <- path
			return nil
		})
		if err != nil {
			log.Fatal().Err(err).Str("path", root).Msg("can't walk path")
		}
	}

	close(pathChannel)
	wg.Wait()
	close(outputChannel)
	<-done
}

func inspectSnapshots(pathChannel chan string, outputChannel chan []byte, printers *registry.Registry, opts options, wg *sync.WaitGroup) {
	defer wg.Done()

	for path := range pathChannel {
		b, err := renderFile(path, printers, opts)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("can't inspect snapshot")
			continue
		}
		log.Debug().Str("path", path).Msg("rendered snapshot")
		outputChannel <- b
	}
}

func renderFile(path string, printers *registry.Registry, opts options) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".lz4") {
		r = lz4.NewReader(f)
	}

	var s snapshot.Snapshot
	if err := gojson.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}

	target, err := snapshot.NewTarget(&s)
	if err != nil {
		return nil, err
	}

	var nodes []view.Node
	if opts.root != "" {
		v, err := target.Root(opts.root)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, view.Render(v, printers, opts.depth))
	} else {
		for _, root := range target.Roots() {
			v, err := target.Root(root.Name)
			if err != nil {
				continue
			}
			nodes = append(nodes, view.Render(v, printers, opts.depth))
		}
	}

	if opts.format == "json" {
		return renderJSON(path, nodes)
	}
	return renderText(path, nodes), nil
}

type fileOutput struct {
	File  string      `json:"file"`
	Views []view.Node `json:"views"`
}

// renderJSON emits one JSON object per file so the output can be piped
// line by line.
func renderJSON(path string, nodes []view.Node) ([]byte, error) {
	b, err := gojson.Marshal(fileOutput{File: path, Views: nodes})
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func renderText(path string, nodes []view.Node) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s:\n", path)
	for _, node := range nodes {
		writeNode(&buf, node, 1)
	}
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, node view.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if node.Summary != "" {
		fmt.Fprintf(buf, "%s%s: %s = %s\n", indent, node.Name, node.Type, node.Summary)
	} else {
		fmt.Fprintf(buf, "%s%s: %s\n", indent, node.Name, node.Type)
	}
	for _, child := range node.Children {
		writeNode(buf, child, depth+1)
	}
}
