package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/df-mc/goleveldb/leveldb/util"
	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// ErrClosed is returned when using a DB that was closed.
var ErrClosed = errors.New("journal: database closed")

// Entry is a single decided teleport.
type Entry struct {
	Requester     uuid.UUID
	RequesterName string
	Target        uuid.UUID
	World         string
	X, Y, Z       float64
	Outcome       string
	Time          time.Time
}

// record is the NBT form of an Entry. The target and time are stored in the
// key.
type record struct {
	Requester     string  `nbt:"Requester"`
	RequesterName string  `nbt:"RequesterName"`
	World         string  `nbt:"World"`
	X             float64 `nbt:"X"`
	Y             float64 `nbt:"Y"`
	Z             float64 `nbt:"Z"`
	Outcome       string  `nbt:"Outcome"`
}

// DB is a LevelDB backed journal of teleports, ordered per target by time.
// DB is safe for concurrent use.
type DB struct {
	ldb *leveldb.DB

	mu sync.Mutex
}

// Open opens the journal in dir, creating it if it does not exist.
func Open(dir string) (*DB, error) {
	ldb, err := leveldb.OpenFile(dir, &opt.Options{Compression: opt.FlateCompression})
	if err != nil {
		return nil, fmt.Errorf("open journal %v: %w", dir, err)
	}
	return &DB{ldb: ldb}, nil
}

// Record appends e to the journal. A zero Time is replaced with the current
// time.
func (db *DB) Record(e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	val, err := nbt.MarshalEncoding(record{
		Requester:     e.Requester.String(),
		RequesterName: e.RequesterName,
		World:         e.World,
		X:             e.X,
		Y:             e.Y,
		Z:             e.Z,
		Outcome:       e.Outcome,
	}, nbt.LittleEndian)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if db.ldb == nil {
		return ErrClosed
	}
	// Entries of a target recorded at the same nanosecond are moved to the
	// next free nanosecond.
	nanos := e.Time.UnixNano()
	for {
		taken, err := db.ldb.Has(key(e.Target, nanos), nil)
		if err != nil {
			return fmt.Errorf("read journal key: %w", err)
		}
		if !taken {
			break
		}
		nanos++
	}
	if err := db.ldb.Put(key(e.Target, nanos), val, nil); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

// Entries returns all entries of target, oldest first.
func (db *DB) Entries(target uuid.UUID) ([]Entry, error) {
	db.mu.Lock()
	ldb := db.ldb
	db.mu.Unlock()
	if ldb == nil {
		return nil, ErrClosed
	}

	iter := ldb.NewIterator(util.BytesPrefix(target[:]), nil)
	defer iter.Release()

	var entries []Entry
	for iter.Next() {
		k := iter.Key()
		if len(k) != len(target)+8 {
			continue
		}
		var r record
		if err := nbt.UnmarshalEncoding(iter.Value(), &r, nbt.LittleEndian); err != nil {
			return nil, fmt.Errorf("decode journal entry: %w", err)
		}
		requester, err := uuid.Parse(r.Requester)
		if err != nil {
			return nil, fmt.Errorf("decode journal requester: %w", err)
		}
		entries = append(entries, Entry{
			Requester:     requester,
			RequesterName: r.RequesterName,
			Target:        target,
			World:         r.World,
			X:             r.X,
			Y:             r.Y,
			Z:             r.Z,
			Outcome:       r.Outcome,
			Time:          time.Unix(0, int64(binary.BigEndian.Uint64(k[len(target):]))),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

// Close closes the journal. Closing a closed DB is a no-op.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.ldb == nil {
		return nil
	}
	err := db.ldb.Close()
	db.ldb = nil
	return err
}

func key(target uuid.UUID, nanos int64) []byte {
	k := make([]byte, len(target)+8)
	copy(k, target[:])
	binary.BigEndian.PutUint64(k[len(target):], uint64(nanos))
	return k
}
