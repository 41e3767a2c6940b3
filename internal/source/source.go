// Package source opens the repositories selected by config.
package source

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/database"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	rulesMemstore "github.com/MrJamesThe3rd/finboard/internal/matching/memstore"
	rulesStore "github.com/MrJamesThe3rd/finboard/internal/matching/store"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/transaction/memstore"
	txStore "github.com/MrJamesThe3rd/finboard/internal/transaction/store"
)

type Stores struct {
	Transactions transaction.Repository
	Rules        matching.Repository

	close func() error
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}

	return s.close()
}

// Open returns the stores for cfg.Source. The memory source starts from
// the bundled sample data and an empty rule set.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}

		return &Stores{
			Transactions: txStore.New(db),
			Rules:        rulesStore.New(db),
			close:        db.Close,
		}, nil
	case config.SourceMemory, "":
		return &Stores{
			Transactions: memstore.New(memstore.Sample()),
			Rules:        rulesMemstore.New(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
