package pass

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dan-zheng/GPIR/internal/ir"
)

// diskCacheSchemaVersion guards DiskPayload's on-disk shape; bump on any
// field change so stale caches are rejected rather than misread.
const diskCacheSchemaVersion uint16 = 1

// Digest identifies a module's source text for cross-run cache lookup.
type Digest [sha256.Size]byte

// DigestOf hashes raw source bytes into a Digest.
func DigestOf(content []byte) Digest {
	return sha256.Sum256(content)
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// InstructionEffect is one instruction's cached side-effect classification,
// addressed by function name and (block, instruction) position rather than
// by pointer, since pointers do not survive a reparse.
type InstructionEffect struct {
	Function string
	Block    int
	Index    int
	Effect   uint8
}

// DiskPayload is the serialised form of a module's SideEffectAnalysis,
// keyed by source digest so a later parse of byte-identical source can
// skip recomputing it, per spec §4.6's "analyses persist across pass
// manager lifetimes only by invalidation version" note generalised to
// cross-process reuse.
type DiskPayload struct {
	Schema  uint16
	Digest  Digest
	Effects []InstructionEffect
}

// DiskCache is a directory of msgpack-encoded DiskPayload files, one per
// source digest, written atomically via temp-file-then-rename. Safe for
// concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens (creating if necessary) a disk cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, key.String()+".mp")
}

// Put serialises and writes payload for key, replacing any prior entry.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads and deserialises the payload for key, returning (false, nil) on
// a cache miss and rejecting (with a miss, not an error) any payload whose
// schema does not match the current version.
func (c *DiskCache) Get(key Digest) (*DiskPayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Digest != key {
		return nil, false, nil
	}
	return &payload, true, nil
}

// EncodeSideEffects flattens a SideEffects summary into a DiskPayload ready
// for Put, addressing each instruction by its function/block/index triple
// since pointers do not survive a reparse.
func EncodeSideEffects(digest Digest, m *ir.Module, se *SideEffects) *DiskPayload {
	payload := &DiskPayload{Schema: diskCacheSchemaVersion, Digest: digest}
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			for _, inst := range b.Instructions {
				payload.Effects = append(payload.Effects, InstructionEffect{
					Function: f.Name,
					Block:    b.Index,
					Index:    inst.Index,
					Effect:   uint8(se.Of(inst)),
				})
			}
		}
	}
	return payload
}

// ApplySideEffects rebuilds a SideEffects summary from a decoded payload
// against the freshly reparsed module m, matching instructions back up by
// the same function/block/index triple used to encode them. Instructions
// with no matching record (the source changed shape since the cache entry
// was written) are left at the zero Effect, EffectNone.
func ApplySideEffects(payload *DiskPayload, m *ir.Module) *SideEffects {
	type position struct {
		function string
		block    int
		index    int
	}
	se := &SideEffects{summary: make(map[*ir.Instruction]Effect)}
	index := make(map[position]Effect, len(payload.Effects))
	for _, e := range payload.Effects {
		index[position{e.Function, e.Block, e.Index}] = Effect(e.Effect)
	}
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			for _, inst := range b.Instructions {
				if eff, ok := index[position{f.Name, b.Index, inst.Index}]; ok {
					se.summary[inst] = eff
				}
			}
		}
	}
	return se
}
