package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alloyengine/peek/internal/debugmeta"
	"github.com/alloyengine/peek/internal/errorutil"
	"github.com/alloyengine/peek/internal/layout"
	"github.com/alloyengine/peek/internal/platform"
	"github.com/alloyengine/peek/internal/timeutil"
	"github.com/alloyengine/peek/internal/types"
	"github.com/google/uuid"
)

const (
	Version1 = "1"

	ByteOrderLittle = "little"
	ByteOrderBig    = "big"
)

type (
	// Snapshot is a capture of debuggee memory plus the metadata needed to
	// read typed values out of it: type layouts, named roots and the images
	// the debug information came from.
	Snapshot struct {
		Version        string            `json:"version"`
		ID             string            `json:"snapshot_id"`
		OrganizationID uint64            `json:"organization_id"`
		ProjectID      uint64            `json:"project_id"`
		Timestamp      timeutil.Time     `json:"timestamp"`
		Platform       platform.Platform `json:"platform"`
		ByteOrder      string            `json:"byte_order"`
		Images         []debugmeta.Image `json:"images,omitempty"`
		Regions        []Region          `json:"regions"`
		Types          layout.Manifest   `json:"types"`
		Roots          []Root            `json:"roots"`
	}

	// Region is one contiguous span of captured memory.
	Region struct {
		Addr types.Address `json:"addr"`
		Data []byte        `json:"data"`
	}

	// Root names a value of interest: where it lives and the type to read
	// it as.
	Root struct {
		Name string        `json:"name"`
		Type string        `json:"type"`
		Addr types.Address `json:"addr"`
	}

	version struct {
		Version string `json:"version"`
	}
)

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var v version
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v.Version {
	case "", Version1:
	default:
		return fmt.Errorf("snapshot: %w: unsupported version %q", errorutil.ErrDataIntegrity, v.Version)
	}
	type alias Snapshot
	return json.Unmarshal(b, (*alias)(s))
}

// Normalize fills the fields writers are allowed to omit.
func (s *Snapshot) Normalize() {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Version == "" {
		s.Version = Version1
	}
	if s.ByteOrder == "" {
		s.ByteOrder = ByteOrderLittle
	}
	if s.Timestamp.Time().IsZero() {
		s.Timestamp = timeutil.Time(time.Now().UTC())
	}
}

// Validate checks the snapshot is internally consistent enough to build a
// target from. It does not prove roots point at live data, only that every
// reference resolves.
func (s *Snapshot) Validate() error {
	switch s.ByteOrder {
	case ByteOrderLittle, ByteOrderBig:
	default:
		return fmt.Errorf("snapshot: %w: unknown byte order %q", errorutil.ErrDataIntegrity, s.ByteOrder)
	}
	if len(s.Regions) == 0 {
		return fmt.Errorf("snapshot: %w: no memory regions", errorutil.ErrDataIntegrity)
	}
	table := layout.NewTable()
	if err := table.Load(s.Types); err != nil {
		return fmt.Errorf("snapshot: %w: %s", errorutil.ErrDataIntegrity, err)
	}
	seen := make(map[string]struct{}, len(s.Roots))
	for _, root := range s.Roots {
		if root.Name == "" {
			return fmt.Errorf("snapshot: %w: root with empty name", errorutil.ErrDataIntegrity)
		}
		if _, ok := seen[root.Name]; ok {
			return fmt.Errorf("snapshot: %w: duplicate root %q", errorutil.ErrDataIntegrity, root.Name)
		}
		seen[root.Name] = struct{}{}
		if _, ok := table.Find(root.Type); !ok {
			return fmt.Errorf("snapshot: %w: root %q references unknown type %q", errorutil.ErrDataIntegrity, root.Name, root.Type)
		}
	}
	return nil
}

func (s *Snapshot) StoragePath() string {
	return StoragePath(s.OrganizationID, s.ProjectID, s.ID)
}

func StoragePath(organizationID, projectID uint64, snapshotID string) string {
	return fmt.Sprintf("%d/%d/%s", organizationID, projectID, strings.Replace(snapshotID, "-", "", -1))
}
