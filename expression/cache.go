package expression

import (
	"context"
	binenc "encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/windstyle/metrics"
)

// CacheCapacity is the number of compiled expressions kept by [Compile].
// The least recently used expression is evicted beyond it.
const CacheCapacity = 256

// compiled stores property expressions keyed by the hash of their source
// document and property spec, ordered from least to most recently used.
var compiled = struct {
	sync.Mutex
	entries *linkedhashmap.Map
}{entries: linkedhashmap.New()}

type compileEntry struct {
	value PropertyExpression
	err   error
	once  sync.Once
}

// cacheKey hashes a source document together with the YAML encoding of
// its property spec. The source length is hashed first so that no two
// pairs of inputs share a byte stream.
func cacheKey(source, spec []byte) xxh3.Uint128 {
	var size [8]byte

	binenc.LittleEndian.PutUint64(size[:], uint64(len(source)))

	h := xxh3.New()
	_, _ = h.Write(size[:])
	_, _ = h.Write(source)
	_, _ = h.Write(spec)

	return h.Sum128()
}

// lookup returns the cache entry for key, creating it and evicting the
// least recently used entry if needed. The second result reports whether
// the entry existed.
func lookup(key xxh3.Uint128) (*compileEntry, bool) {
	compiled.Lock()
	defer compiled.Unlock()

	if value, ok := compiled.entries.Get(key); ok {
		// Reinserting moves the entry to the most recently used end.
		compiled.entries.Remove(key)
		compiled.entries.Put(key, value)

		return value.(*compileEntry), true
	}

	entry := new(compileEntry)
	compiled.entries.Put(key, entry)

	if compiled.entries.Size() > CacheCapacity {
		it := compiled.entries.Iterator()
		if it.First() {
			compiled.entries.Remove(it.Key())
		}
	}

	return entry, false
}

// Compile reads a property value document from r and normalizes it
// against spec. Results are cached by the content of the document and
// the spec, so compiling the same document twice returns the same
// [PropertyExpression] while it remains among the [CacheCapacity] most
// recently compiled. Options apply only to the first compilation.
func Compile(
	ctx context.Context,
	r io.Reader,
	spec *PropertySpec,
	opts ...Option,
) (PropertyExpression, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	specData, err := yaml.Marshal(spec)
	if err != nil {
		return nil, ErrSpec.Wrap(err)
	}

	o := applyOptions(opts...)

	key := cacheKey(data, specData)
	entry, hit := lookup(key)

	metrics.RecordCacheLookup(hit)
	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", fmt.Sprintf("%016x%016x", key.Hi, key.Lo)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		raw, err := Decode(data)
		if err != nil {
			entry.err = err

			return
		}

		entry.value, entry.err = NormalizePropertyExpression(raw, spec, opts...)
	})

	return entry.value, entry.err
}

// ClearCache removes every compiled expression from the cache.
func ClearCache() {
	compiled.Lock()
	defer compiled.Unlock()

	compiled.entries.Clear()
}
