package book

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/oakwood-commons/bookgrid/pkg/loader"
)

// Source produces the order book and the federation it was gathered from.
type Source interface {
	Load(ctx context.Context) (Snapshot, Federation, error)
}

// StaticSource always returns the same data.
type StaticSource struct {
	Snapshot   Snapshot
	Federation Federation
}

// Load returns the fixed snapshot and federation.
func (s StaticSource) Load(ctx context.Context) (Snapshot, Federation, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, Federation{}, err
	}
	return s.Snapshot, s.Federation, nil
}

// FileSource reads snapshots from files on every Load. A BookPath of "-"
// reads Stdin once and serves that document afterwards. Without a
// FederationPath the roster is derived from the orders.
type FileSource struct {
	BookPath       string
	FederationPath string
	Stdin          io.Reader

	mu        sync.Mutex
	stdinRoot interface{}
}

// Load reads and parses both files.
func (s *FileSource) Load(ctx context.Context) (Snapshot, Federation, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, Federation{}, err
	}
	root, err := s.bookRoot()
	if err != nil {
		return Snapshot{}, Federation{}, err
	}
	snap, err := ParseSnapshot(root)
	if err != nil {
		return Snapshot{}, Federation{}, err
	}

	if s.FederationPath == "" {
		return snap, FederationFromOrders(snap.Orders), nil
	}
	fedRoot, err := loader.LoadFile(s.FederationPath)
	if err != nil {
		return Snapshot{}, Federation{}, fmt.Errorf("load federation: %w", err)
	}
	fed, err := ParseFederation(fedRoot)
	if err != nil {
		return Snapshot{}, Federation{}, err
	}
	return snap, fed, nil
}

func (s *FileSource) bookRoot() (interface{}, error) {
	if s.BookPath != "" && s.BookPath != "-" {
		root, err := loader.LoadFile(s.BookPath)
		if err != nil {
			return nil, fmt.Errorf("load book: %w", err)
		}
		return root, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stdinRoot == nil {
		root, err := loader.LoadSource("-", s.Stdin)
		if err != nil {
			return nil, fmt.Errorf("load book from stdin: %w", err)
		}
		s.stdinRoot = root
	}
	return s.stdinRoot, nil
}

// FederationFromOrders lists every coordinator that published an order,
// enabled and up, ordered by alias.
func FederationFromOrders(orders []Order) Federation {
	seen := map[string]bool{}
	var aliases []string
	for _, o := range orders {
		if o.CoordinatorShortAlias == "" || seen[o.CoordinatorShortAlias] {
			continue
		}
		seen[o.CoordinatorShortAlias] = true
		aliases = append(aliases, o.CoordinatorShortAlias)
	}
	sort.Strings(aliases)
	list := make([]Coordinator, len(aliases))
	for i, alias := range aliases {
		list[i] = Coordinator{ShortAlias: alias, LongAlias: alias, Enabled: true, Up: true}
	}
	return NewFederation(list)
}
