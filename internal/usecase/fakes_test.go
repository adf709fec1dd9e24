package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/bonus"
	"companygrow/internal/domain/course"
	"companygrow/internal/domain/project"
	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/logger"
	"companygrow/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 12, 9, 30, 15, 123456789, time.UTC)

const fixedPeriod = "Mar-Apr 2024"

type recordedEvent struct {
	UserID  uuid.UUID
	Event   string
	Payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{UserID: userID, Event: event, Payload: payload})
}

func (n *recordingNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Event == event {
			c++
		}
	}
	return c
}

// failingUsers fails SaveUser for the listed ids and can inject stale writes.
type failingUsers struct {
	*memory.UserRepository

	mu        sync.Mutex
	failSave  map[uuid.UUID]error
	staleLeft int
}

func (f *failingUsers) SaveUser(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	if err, ok := f.failSave[u.ID]; ok {
		f.mu.Unlock()
		return err
	}
	if f.staleLeft > 0 {
		f.staleLeft--
		f.mu.Unlock()
		return domain.ErrStaleWrite
	}
	f.mu.Unlock()
	return f.UserRepository.SaveUser(ctx, u)
}

type fakeGateway struct {
	mu       sync.Mutex
	requests []bonus.CheckoutRequest
	err      error
	sessions map[string]bonus.SessionDetails
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req bonus.CheckoutRequest) (bonus.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return bonus.CheckoutSession{}, g.err
	}
	g.requests = append(g.requests, req)
	id := "cs_test_" + uuid.NewString()
	return bonus.CheckoutSession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) RetrieveSession(_ context.Context, id string) (bonus.SessionDetails, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.sessions[id]
	if !ok {
		return bonus.SessionDetails{}, bonus.ErrSessionNotFound
	}
	return d, nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

type fixture struct {
	users    *failingUsers
	courses  *memory.CourseRepository
	projects *memory.ProjectRepository
	notifier *recordingNotifier
	perf     *Performance
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    &failingUsers{UserRepository: memory.NewUserRepository(), failSave: map[uuid.UUID]error{}},
		courses:  memory.NewCourseRepository(),
		projects: memory.NewProjectRepository(),
		notifier: &recordingNotifier{},
	}
	f.perf = NewPerformanceUsecase(f.users, f.courses, f.projects, f.notifier, logger.Nop(),
		WithClock(func() time.Time { return fixedNow }))
	return f
}

func (f *fixture) addUser(t *testing.T, name string) user.User {
	t.Helper()
	u := user.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Name: name, Role: user.RoleEmployee}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	got, err := f.users.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	return got
}

func (f *fixture) addCourse(t *testing.T, modules int, reward user.BadgeTier) course.Course {
	t.Helper()
	c := course.Course{
		ID:           uuid.New(),
		Title:        "Go Fundamentals",
		SkillsGained: []string{"Go", "Testing"},
	}
	if reward != "" {
		c.BadgeReward = &reward
	}
	for i := 0; i < modules; i++ {
		c.Content = append(c.Content, course.Module{ID: uuid.NewString(), Title: "Module"})
	}
	require.NoError(t, f.courses.Create(context.Background(), c))
	got, err := f.courses.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	return got
}

func (f *fixture) addProject(t *testing.T, reward user.BadgeTier) project.Project {
	t.Helper()
	p := project.Project{
		ID:           uuid.New(),
		Name:         "Apollo",
		Status:       project.StatusInProgress,
		SkillsGained: []string{"Kubernetes"},
		ManagedBy:    uuid.New(),
	}
	if reward != "" {
		p.BadgeReward = &reward
	}
	require.NoError(t, f.projects.Create(context.Background(), p))
	got, err := f.projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got
}

// user reloads the stored user.
func (f *fixture) user(t *testing.T, id uuid.UUID) *user.User {
	t.Helper()
	u, err := f.users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return &u
}

var errDiskFull = errors.New("disk full")
