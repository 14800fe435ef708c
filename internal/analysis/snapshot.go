package analysis

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vk/buildgrid/internal/label"
)

// snapshotVersion guards against reading snapshots written by an
// incompatible layout of the snapshot struct.
const snapshotVersion = 1

// snapshot is the wire form of a store. Action payloads are deliberately
// not part of it: persisting only the labels keeps snapshots small, at the
// cost that reloaded values carry no actions and report zero counts.
type snapshot struct {
	Version int      `msgpack:"version"`
	Labels  []string `msgpack:"labels"`
}

// EncodeSnapshot writes the store's snapshot form to w.
func (s *Store) EncodeSnapshot(w io.Writer) error {
	snap := snapshot{Version: snapshotVersion}
	for _, l := range s.Labels() {
		snap.Labels = append(snap.Labels, l.String())
	}
	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encoding analysis snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot from r and reconstructs a store. Every
// value in the returned store is the absent variant: NumActions reports 0
// and Actions fails, regardless of what the original values carried.
func DecodeSnapshot(r io.Reader) (*Store, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding analysis snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported analysis snapshot version %d", snap.Version)
	}

	store := NewStore()
	for _, raw := range snap.Labels {
		l, err := label.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("analysis snapshot contains invalid label %q: %w", raw, err)
		}
		store.Put(Restored(l))
	}
	return store, nil
}

// SaveFile writes the store's snapshot to the given path, create-or-truncate.
func (s *Store) SaveFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating analysis snapshot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing analysis snapshot file %s: %w", path, cerr)
		}
	}()
	return s.EncodeSnapshot(f)
}

// LoadFile reads a snapshot from the given path and reconstructs a store.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening analysis snapshot file: %w", err)
	}
	defer f.Close()
	return DecodeSnapshot(f)
}
