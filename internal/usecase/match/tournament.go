package match

import (
	"cmp"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	matchdomain "othello_ai/internal/domain/match"
	"othello_ai/internal/pq"
)

type StandingsStore interface {
	SaveReport(ctx context.Context, report matchdomain.Report) error
}

type Tournament struct {
	log     *zap.SugaredLogger
	store   StandingsStore
	workers int
	now     func() time.Time
}

// NewTournament returns a round robin runner. store may be nil, in which case
// reports are only returned.
func NewTournament(log *zap.SugaredLogger, store StandingsStore, workers int) *Tournament {
	if workers < 1 {
		workers = 1
	}
	return &Tournament{
		log:     log,
		store:   store,
		workers: workers,
		now:     time.Now,
	}
}

type pairing struct {
	x, y int
}

// Run plays every pair of entrants against each other rounds times, each
// meeting being a Compare over both colours, and returns the ranked standings.
func (t *Tournament) Run(ctx context.Context, entrants []Strategy, rounds int) (matchdomain.Report, error) {
	if len(entrants) < 2 {
		return matchdomain.Report{}, fmt.Errorf("tournament needs at least two entrants, got %d", len(entrants))
	}
	if rounds < 1 {
		rounds = 1
	}
	started := t.now()

	var pairings []pairing
	for r := 0; r < rounds; r++ {
		for i := range entrants {
			for j := i + 1; j < len(entrants); j++ {
				pairings = append(pairings, pairing{i, j})
			}
		}
	}

	standings := make([]matchdomain.Standing, len(entrants))
	for i, e := range entrants {
		standings[i].Name = e.Name()
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for _, p := range pairings {
		g.Go(func() error {
			sx, sy, err := Compare(gctx, entrants[p.x], entrants[p.y])
			if err != nil {
				return err
			}
			t.log.Debugf("%s vs %s: %.1f - %.1f", entrants[p.x].Name(), entrants[p.y].Name(), sx.Wins, sy.Wins)

			mu.Lock()
			defer mu.Unlock()
			add(&standings[p.x], sx)
			add(&standings[p.y], sy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return matchdomain.Report{}, fmt.Errorf("tournament aborted: %w", err)
	}

	for i := range standings {
		// Every Compare contributes two games and a tile share averaged over them.
		if meetings := standings[i].Games / 2; meetings > 0 {
			standings[i].TileShare /= float64(meetings)
		}
	}

	report := matchdomain.Report{
		ID:        uuid.New().String(),
		Rounds:    rounds,
		Standings: Rank(standings),
		StartedAt: started,
		Duration:  t.now().Sub(started).String(),
	}
	t.log.Infof("tournament %s finished: %d games, leader %s", report.ID, 2*len(pairings), report.Standings[0].Name)

	if t.store != nil {
		if err := t.store.SaveReport(ctx, report); err != nil {
			return report, fmt.Errorf("save tournament %s: %w", report.ID, err)
		}
	}
	return report, nil
}

func add(s *matchdomain.Standing, sc Score) {
	s.Games += 2
	s.Wins += sc.Wins
	s.TileShare += sc.TileShare
	s.Forfeits += sc.Forfeits
}

func compareStandings(a, b matchdomain.Standing) int {
	if c := cmp.Compare(a.Wins, b.Wins); c != 0 {
		return c
	}
	return cmp.Compare(a.TileShare, b.TileShare)
}

// Rank orders standings by wins, then by tile share, best first.
func Rank(standings []matchdomain.Standing) []matchdomain.Standing {
	h := pq.New(len(standings), pq.MaxFirst, compareStandings)
	for _, s := range standings {
		h.Insert(s)
	}
	ranked := make([]matchdomain.Standing, 0, len(standings))
	for s, ok := h.Pop(); ok; s, ok = h.Pop() {
		ranked = append(ranked, s)
	}
	return ranked
}
