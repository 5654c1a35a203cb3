package evaluation

import (
	"context"
	"sort"
	"sync"
	"time"

	"dema/internal/utils"
)

// DefaultSweepInterval is how often Serve looks for expired projects.
const DefaultSweepInterval = time.Minute

// Repository keeps the latest evaluations of each project in memory. Every project
// owns a ring buffer of fixed length; projects not updated for longer than ttl
// are dropped by Serve. A zero ttl keeps projects forever.
//
//	repo := evaluation.NewRepository(100, time.Hour)
//	go repo.Serve(ctx)
//	repo.Append(evaluation.NewRecord("cars", result))
type Repository struct {
	length int
	ttl    time.Duration

	records map[string]*utils.RingBuffer[Record]
	updates map[string]time.Time
	mu      sync.RWMutex

	interval time.Duration
}

// NewRepository creates a repository holding up to length records per project.
func NewRepository(length int, ttl time.Duration) *Repository {
	if length <= 0 {
		length = 1
	}
	return &Repository{
		length:   length,
		ttl:      ttl,
		records:  make(map[string]*utils.RingBuffer[Record]),
		updates:  make(map[string]time.Time),
		interval: DefaultSweepInterval,
	}
}

// Append stores r under r.Project, evicting that project's oldest record when
// its buffer is full.
func (repo *Repository) Append(r Record) {
	repo.mu.RLock()
	buffer, found := repo.records[r.Project]
	repo.mu.RUnlock()

	if !found {
		repo.mu.Lock()
		if buffer, found = repo.records[r.Project]; !found {
			buffer = utils.NewRingBuffer[Record](repo.length)
			repo.records[r.Project] = buffer
		}
		repo.mu.Unlock()
	}
	buffer.Push(r)

	repo.mu.Lock()
	repo.updates[r.Project] = time.Now()
	repo.mu.Unlock()
}

// Get returns the project's records from oldest to newest.
func (repo *Repository) Get(project string) ([]Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	buffer, found := repo.records[project]
	if !found {
		return nil, &NotFoundError{Project: project}
	}
	return buffer.ToSlice(), nil
}

// Ranking returns the newest record of every alternative in the project, best
// first: score descending, then cost ascending, then alternative name.
func (repo *Repository) Ranking(project string) ([]Record, error) {
	records, err := repo.Get(project)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]Record, len(records))
	for _, r := range records {
		latest[r.Alternative] = r
	}

	ranking := make([]Record, 0, len(latest))
	for _, r := range latest {
		ranking = append(ranking, r)
	}
	sort.Slice(ranking, func(i, j int) bool {
		a, b := ranking[i], ranking[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return a.Alternative < b.Alternative
	})
	return ranking, nil
}

// Projects lists the stored project names in lexical order.
func (repo *Repository) Projects() []string {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	projects := make([]string, 0, len(repo.records))
	for p := range repo.records {
		projects = append(projects, p)
	}
	sort.Strings(projects)
	return projects
}

// Serve drops expired projects periodically until ctx is done. It blocks and is
// meant to run in its own goroutine.
func (repo *Repository) Serve(ctx context.Context) {
	if repo.ttl <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(repo.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			repo.sweep(now)
		}
	}
}

func (repo *Repository) sweep(now time.Time) {
	var outdated []string

	repo.mu.RLock()
	for project, ts := range repo.updates {
		if now.Sub(ts) > repo.ttl {
			outdated = append(outdated, project)
		}
	}
	repo.mu.RUnlock()

	if len(outdated) == 0 {
		return
	}
	repo.mu.Lock()
	for _, project := range outdated {
		// appended to since the read pass
		if now.Sub(repo.updates[project]) <= repo.ttl {
			continue
		}
		delete(repo.records, project)
		delete(repo.updates, project)
	}
	repo.mu.Unlock()
}
