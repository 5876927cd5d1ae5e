package service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/dupcheck"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
)

// otherInitial collects clients whose name does not start with a letter.
const otherInitial = "#"

type clientService struct {
	clients  repository.ClientRepo
	matcher  dupcheck.Matcher
	observer UseCaseObserver
}

func NewClientService(clients repository.ClientRepo, matcher dupcheck.Matcher, observers ...UseCaseObserver) ClientService {
	return &clientService{
		clients:  clients,
		matcher:  matcherOrDefault(matcher),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *clientService) Create(ctx context.Context, c *domain.Client) (err error) {
	defer observe(ctx, s.observer, "create-client", time.Now().UTC(), map[string]any{"name": c.Name}, &err)

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.Name = strings.TrimSpace(c.Name)
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err = domain.Validate(c); err != nil {
		return err
	}
	return s.clients.Create(ctx, c)
}

func (s *clientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context, f ClientFilter) ([]*domain.Client, error) {
	all, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Query) == "" {
		return all, nil
	}
	var out []*domain.Client
	for _, c := range all {
		if containsFold(f.Query, c.Name, c.Email, c.PhoneNumber) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *clientService) Update(ctx context.Context, c *domain.Client) error {
	c.UpdatedAt = time.Now().UTC()
	if err := domain.Validate(c); err != nil {
		return err
	}
	return s.clients.Update(ctx, c)
}

func (s *clientService) FindSimilar(ctx context.Context, name string) ([]dupcheck.Match, error) {
	all, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]dupcheck.Candidate, len(all))
	for i, c := range all {
		candidates[i] = dupcheck.Candidate{ID: c.ID, Name: c.Name}
	}
	return s.matcher.Similar(name, candidates), nil
}

// GroupByInitial buckets clients by the uppercased first letter of their
// name. Groups are sorted A-Z with non-letter names under "#" at the end;
// clients keep their input order within a group.
func (s *clientService) GroupByInitial(clients []*domain.Client) []ClientGroup {
	index := make(map[string]int)
	var groups []ClientGroup
	for _, c := range clients {
		key := initialOf(c.Name)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ClientGroup{Initial: key})
		}
		groups[i].Clients = append(groups[i].Clients, c)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Initial, groups[j].Initial
		if a == otherInitial || b == otherInitial {
			return b == otherInitial && a != otherInitial
		}
		return a < b
	})
	return groups
}

func initialOf(name string) string {
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r))
		}
		return otherInitial
	}
	return otherInitial
}
