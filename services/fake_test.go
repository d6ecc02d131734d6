package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/tournament-fixtures/models"
	"github.com/Dosada05/tournament-fixtures/repositories"
	"github.com/Dosada05/tournament-fixtures/storage"
)

var fakeNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory database shared by the fake repositories.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID        int
	tournaments   map[int]models.Tournament
	teams         []models.Team
	matches       []models.Match
	users         map[int]models.User
	subscriptions []subscriptionRow
}

type subscriptionRow struct {
	id, userID, tournamentID int
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: map[int]models.Tournament{},
		users:       map[int]models.User{},
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

type memSnapshot struct {
	nextID        int
	tournaments   map[int]models.Tournament
	teams         []models.Team
	matches       []models.Match
	subscriptions []subscriptionRow
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := make(map[int]models.Tournament, len(s.tournaments))
	for k, v := range s.tournaments {
		ts[k] = v
	}
	return memSnapshot{
		nextID:        s.nextID,
		tournaments:   ts,
		teams:         append([]models.Team(nil), s.teams...),
		matches:       append([]models.Match(nil), s.matches...),
		subscriptions: append([]subscriptionRow(nil), s.subscriptions...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.tournaments = snap.tournaments
	s.teams = snap.teams
	s.matches = snap.matches
	s.subscriptions = snap.subscriptions
}

func (s *memStore) matchCount(tournamentID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.matches {
		if m.TournamentID == tournamentID {
			n++
		}
	}
	return n
}

// seedTournament stores a tournament with the given team names.
func (s *memStore) seedTournament(ownerID, rounds int, teamNames ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.tournaments[id] = models.Tournament{ID: id, Name: "Cup", UserID: ownerID, Rounds: rounds, CreatedAt: fakeNow}
	for _, name := range teamNames {
		s.teams = append(s.teams, models.Team{ID: s.id(), TournamentID: id, Name: name, CreatedAt: fakeNow})
	}
	return id
}

// fakeTransactor serializes transactions and restores the store when fn fails.
type fakeTransactor struct {
	store *memStore
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, exec repositories.SQLExecutor) error) error {
	f.store.txMu.Lock()
	defer f.store.txMu.Unlock()

	snap := f.store.snapshot()
	if err := fn(ctx, nil); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

type fakeTournamentRepo struct {
	store *memStore
}

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.tournaments {
		if existing.UserID == t.UserID && existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.store.id()
	t.CreatedAt = fakeNow
	r.store.tournaments[t.ID] = *t
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r *fakeTournamentRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Tournament
	for _, t := range r.store.tournaments {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, exec repositories.SQLExecutor, id int, patch repositories.TournamentPatch) (*models.Tournament, error) {
	if patch.IsEmpty() {
		return nil, repositories.ErrEmptyPatch
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.SignUpExpiration != nil {
		t.SignUpExpiration = patch.SignUpExpiration
	}
	if patch.MaxTeams != nil {
		t.MaxTeams = patch.MaxTeams
	}
	if patch.Rounds != nil {
		t.Rounds = *patch.Rounds
	}
	if patch.Public != nil {
		t.Public = *patch.Public
	}
	if patch.Sport != nil {
		t.Sport = patch.Sport
	}
	r.store.tournaments[id] = t
	return &t, nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.store.tournaments, id)
	return nil
}

type fakeTeamRepo struct {
	store *memStore
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tournaments[team.TournamentID]; !ok {
		return repositories.ErrTeamTournamentInvalid
	}
	for _, existing := range r.store.teams {
		if existing.TournamentID == team.TournamentID && strings.EqualFold(existing.Name, team.Name) {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.store.id()
	team.CreatedAt = fakeNow
	r.store.teams = append(r.store.teams, *team)
	return nil
}

func (r *fakeTeamRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Team
	for _, t := range r.store.teams {
		if t.TournamentID == tournamentID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeMatchRepo struct {
	store *memStore

	InsertBatchFunc func(ctx context.Context, exec repositories.SQLExecutor, matches []models.Match) ([]models.Match, error)
}

func (r *fakeMatchRepo) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	return r.store.matchCount(tournamentID), nil
}

func (r *fakeMatchRepo) InsertBatch(ctx context.Context, exec repositories.SQLExecutor, matches []models.Match) ([]models.Match, error) {
	if r.InsertBatchFunc != nil {
		return r.InsertBatchFunc(ctx, exec, matches)
	}
	return r.insert(matches), nil
}

func (r *fakeMatchRepo) insert(matches []models.Match) []models.Match {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]models.Match, len(matches))
	for i, m := range matches {
		m.ID = r.store.id()
		m.CreatedAt = fakeNow
		r.store.matches = append(r.store.matches, m)
		out[i] = m
	}
	return out
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Match
	for _, m := range r.store.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, exec repositories.SQLExecutor, tournamentID, matchID int, patch repositories.MatchPatch) (*models.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, m := range r.store.matches {
		if m.ID != matchID || m.TournamentID != tournamentID {
			continue
		}
		if patch.HomeTeamScore != nil {
			m.HomeTeamScore = patch.HomeTeamScore
		}
		if patch.AwayTeamScore != nil {
			m.AwayTeamScore = patch.AwayTeamScore
		}
		if patch.Location != nil {
			m.Location = patch.Location
		}
		if patch.Played != nil {
			m.Played = *patch.Played
		}
		r.store.matches[i] = m
		return &m, nil
	}
	return nil, repositories.ErrMatchNotFound
}

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

type fakeSubscriptionRepo struct {
	store *memStore
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, userID, tournamentID int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, sub := range r.store.subscriptions {
		if sub.userID == userID && sub.tournamentID == tournamentID {
			return 0, repositories.ErrSubscriptionConflict
		}
	}
	row := subscriptionRow{id: r.store.id(), userID: userID, tournamentID: tournamentID}
	r.store.subscriptions = append(r.store.subscriptions, row)
	return row.id, nil
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, userID, tournamentID int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, sub := range r.store.subscriptions {
		if sub.userID == userID && sub.tournamentID == tournamentID {
			r.store.subscriptions = append(r.store.subscriptions[:i], r.store.subscriptions[i+1:]...)
			return nil
		}
	}
	return repositories.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) ListByUser(ctx context.Context, userID int) ([]models.SubscribedSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.SubscribedSummary
	for _, sub := range r.store.subscriptions {
		if sub.userID != userID {
			continue
		}
		out = append(out, models.SubscribedSummary{SubscriptionID: sub.id, Tournament: r.store.tournaments[sub.tournamentID]})
	}
	return out, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []interface{}
	rooms    []string
}

func (n *fakeNotifier) BroadcastToRoom(roomID string, message interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rooms = append(n.rooms, roomID)
	n.messages = append(n.messages, message)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	UploadFunc func(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error)
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.UploadFunc != nil {
		return u.UploadFunc(ctx, key, contentType, reader)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.test/" + key
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
	matches  int
}

func (m *fakeMetrics) ObserveStart(outcome string, matches int, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	m.matches += matches
}

// testEnv bundles a tournament service with its fakes.
type testEnv struct {
	store     *memStore
	matchRepo *fakeMatchRepo
	notifier  *fakeNotifier
	uploader  *fakeUploader
	metrics   *fakeMetrics
	service   *tournamentService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:     store,
		matchRepo: &fakeMatchRepo{store: store},
		notifier:  &fakeNotifier{},
		uploader:  newFakeUploader(),
		metrics:   &fakeMetrics{},
	}
	svc := NewTournamentService(
		&fakeTransactor{store: store},
		&fakeTournamentRepo{store: store},
		&fakeTeamRepo{store: store},
		env.matchRepo,
		env.notifier,
		env.uploader,
		env.metrics,
		discardLogger(),
	).(*tournamentService)
	svc.now = func() time.Time { return fakeNow }
	env.service = svc
	return env
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
