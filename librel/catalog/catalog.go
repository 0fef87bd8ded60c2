package catalog

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/fine-structures/relplan/librel/graph"
	"github.com/fine-structures/relplan/relplan"
	"github.com/pkg/errors"
)

// Opts specifies params for opening a Catalog
type Opts struct {
	MemTableSize int64 // 0 denotes DefaultMemTableSize
}

const DefaultMemTableSize = 4 << 20

// An in-memory db keeps every value in its LSM tree, so the value threshold only has to stay below badger's max batch
// size (15% of the memtable).
const maxValueThreshold = 1 << 10

// Key layout:
//
//	'G' | len-prefixed fingerprint | uint32 sequence  =>  graph encoding
//
// Graphs sharing a fingerprint share a key prefix, so an isomorphism check only visits its own bucket.
const graphKeyPrefix = 'G'

// Catalog is an in-memory badger db of graphs, deduplicated up to isomorphism.
type Catalog struct {
	space     *graph.Space
	db        *badger.DB
	numGraphs int64
}

// Open returns an empty Catalog whose graphs are decoded into the given space.
func Open(space *graph.Space, opts Opts) (*Catalog, error) {
	if space == nil {
		return nil, errors.Wrap(relplan.ErrBadCatalogOpts, "nil space")
	}
	if opts.MemTableSize < 0 {
		return nil, errors.Wrap(relplan.ErrBadCatalogOpts, "MemTableSize must be >= 0")
	}
	if opts.MemTableSize == 0 {
		opts.MemTableSize = DefaultMemTableSize
	}

	dbOpts := badger.DefaultOptions("").
		WithInMemory(true).
		WithMemTableSize(opts.MemTableSize).
		WithValueThreshold(min(maxValueThreshold, opts.MemTableSize*15/100)).
		WithCompression(options.None).
		WithBlockCacheSize(0)
	dbOpts.DetectConflicts = false
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		space: space,
		db:    db,
	}, nil
}

func appendBucketKey(buf []byte, X *graph.Graph) []byte {
	buf = append(buf, graphKeyPrefix)
	return X.AppendPrimeKey(buf)
}

// TryAddGraph adds a copy of X unless an isomorphic graph is already cataloged.
func (cat *Catalog) TryAddGraph(X *graph.Graph) bool {
	var keyBuf [128]byte
	bucket := appendBucketKey(keyBuf[:0], X)

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	dupe := false
	count := uint32(0)
	{
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         bucket,
			PrefetchValues: true,
		})
		for it.Rewind(); it.Valid() && !dupe; it.Next() {
			count++
			err := it.Item().Value(func(val []byte) error {
				Xi, err := cat.space.UnmarshalGraph(val)
				if err != nil {
					return err
				}
				dupe = Xi.Equal(X)
				return nil
			})
			if err != nil {
				it.Close()
				panic(err)
			}
		}
		it.Close()
	}
	if dupe {
		return false
	}

	key := make([]byte, len(bucket), len(bucket)+4)
	copy(key, bucket)
	key = binary.BigEndian.AppendUint32(key, count)

	err := txn.Set(key, X.AppendEncoding(nil))
	if err == nil {
		err = txn.Commit()
	}
	if err != nil {
		panic(err)
	}

	cat.numGraphs++
	return true
}

// NumGraphs returns the number of graphs added.
func (cat *Catalog) NumGraphs() int64 {
	return cat.numGraphs
}

// Select calls onHit with each cataloged graph, ordered by fingerprint, until onHit returns false.
func (cat *Catalog) Select(onHit func(X *graph.Graph) bool) error {
	return cat.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         []byte{graphKeyPrefix},
			PrefetchValues: true,
			PrefetchSize:   100,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			more := true
			err := it.Item().Value(func(val []byte) error {
				X, err := cat.space.UnmarshalGraph(val)
				if err != nil {
					return err
				}
				more = onHit(X)
				return nil
			})
			if err != nil {
				return err
			}
			if !more {
				break
			}
		}
		return nil
	})
}

func (cat *Catalog) Close() error {
	if cat.db == nil {
		return nil
	}
	err := cat.db.Close()
	cat.db = nil
	return err
}
