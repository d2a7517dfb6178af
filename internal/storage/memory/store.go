// Package memory is an in-process Store used by tests and the memory storage driver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
)

type state struct {
	users        map[int64]models.User
	jobs         map[int64]models.Job
	applications map[int64]models.Application
	messages     []models.Message
	reads        map[readKey]time.Time
	ratings      []models.Rating
	seq          int64
}

type readKey struct{ messageID, userID int64 }

func (s *state) clone() *state {
	c := &state{
		users:        make(map[int64]models.User, len(s.users)),
		jobs:         make(map[int64]models.Job, len(s.jobs)),
		applications: make(map[int64]models.Application, len(s.applications)),
		messages:     append([]models.Message(nil), s.messages...),
		reads:        make(map[readKey]time.Time, len(s.reads)),
		ratings:      append([]models.Rating(nil), s.ratings...),
		seq:          s.seq,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.jobs {
		c.jobs[k] = *v.Clone()
	}
	for k, v := range s.applications {
		c.applications[k] = v
	}
	for k, v := range s.reads {
		c.reads[k] = v
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store keeps everything in maps guarded by one RWMutex. UpdateJob works on a
// copy of the state and swaps it in only when the callback succeeds.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		st: &state{
			users:        map[int64]models.User{},
			jobs:         map[int64]models.Job{},
			applications: map[int64]models.Application{},
			reads:        map[readKey]time.Time{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Users() storage.UserRepository               { return userRepo{s} }
func (s *Store) Jobs() storage.JobRepository                 { return jobRepo{s} }
func (s *Store) Applications() storage.ApplicationRepository { return applicationRepo{s} }
func (s *Store) Messages() storage.MessageRepository         { return messageRepo{s} }
func (s *Store) Ratings() storage.RatingRepository           { return ratingRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) UpdateJob(ctx context.Context, jobID int64, fn storage.JobUpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.st.jobs[jobID]
	if !ok {
		return storage.ErrNotFound
	}

	work := s.st.clone()
	tx := &jobTx{st: work, now: s.now}
	if err := fn(ctx, tx, job.Clone()); err != nil {
		return err
	}
	s.st = work
	return nil
}

// --- users ---

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return nil, fmt.Errorf("username %q: %w", u.Username, storage.ErrDuplicate)
		}
	}
	created := *u
	created.ID = r.s.st.nextID()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	if created.ProfileData == nil {
		created.ProfileData = models.Document{}
	}
	r.s.st.users[created.ID] = created
	return &created, nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Username, username) {
			found := u
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r userRepo) UpdateProfile(_ context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.DisplayName != nil {
		u.DisplayName = *upd.DisplayName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.ProfileData != nil {
		u.ProfileData = u.ProfileData.Merge(upd.ProfileData)
	}
	u.UpdatedAt = r.s.now()
	r.s.st.users[id] = u
	return &u, nil
}

// --- jobs ---

type jobRepo struct{ s *Store }

func (r jobRepo) Create(_ context.Context, j *models.Job) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.users[j.RequesterID]; !ok {
		return nil, fmt.Errorf("requester %d: %w", j.RequesterID, storage.ErrConflict)
	}
	created := j.Clone()
	created.ID = r.s.st.nextID()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	created.RecomputeDerived()
	r.s.st.jobs[created.ID] = *created
	return created.Clone(), nil
}

func (r jobRepo) GetByID(_ context.Context, id int64) (*models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.st.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return j.Clone(), nil
}

func (r jobRepo) List(_ context.Context, f models.JobFilter) ([]models.Job, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []models.Job
	for _, j := range r.s.st.jobs {
		if f.Status != nil && j.Status != *f.Status {
			continue
		}
		if f.MaterialType != "" && !strings.EqualFold(j.MaterialType, f.MaterialType) {
			continue
		}
		if f.RequesterID != nil && j.RequesterID != *f.RequesterID {
			continue
		}
		if f.ProviderID != nil && !j.IsProvider(*f.ProviderID) {
			continue
		}
		matched = append(matched, *j.Clone())
	}
	sortJobs(matched)
	total := len(matched)
	return paginate(matched, f.Limit, f.Offset), total, nil
}

func (r jobRepo) ListPendingEvaluation(_ context.Context, userID int64, role models.Role) ([]models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Job
	for _, j := range r.s.st.jobs {
		if j.Status != models.JobStatusCompleted {
			continue
		}
		side, ok := j.RoleOf(userID)
		if !ok || side != role || j.RatingDone(role) {
			continue
		}
		out = append(out, *j.Clone())
	}
	sortJobs(out)
	return out, nil
}

func sortJobs(jobs []models.Job) {
	sort.Slice(jobs, func(a, b int) bool {
		if jobs[a].CreatedAt.Equal(jobs[b].CreatedAt) {
			return jobs[a].ID > jobs[b].ID
		}
		return jobs[a].CreatedAt.After(jobs[b].CreatedAt)
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// --- applications ---

type applicationRepo struct{ s *Store }

func (r applicationRepo) ListByJob(_ context.Context, jobID int64) ([]models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Application{}
	for _, a := range r.s.st.applications {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r applicationRepo) ListByProvider(_ context.Context, providerID int64, limit, offset int) ([]models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Application{}
	for _, a := range r.s.st.applications {
		if a.ProviderID == providerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return paginate(out, limit, offset), nil
}

// --- messages ---

type messageRepo struct{ s *Store }

func (r messageRepo) ListByJob(_ context.Context, jobID int64) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Message{}
	for _, m := range r.s.st.messages {
		if m.JobID == jobID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r messageRepo) MarkRead(_ context.Context, jobID, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var marked int64
	for _, m := range r.s.st.messages {
		if m.JobID != jobID || m.SenderID == userID {
			continue
		}
		key := readKey{messageID: m.ID, userID: userID}
		if _, ok := r.s.st.reads[key]; ok {
			continue
		}
		r.s.st.reads[key] = r.s.now()
		marked++
	}
	return marked, nil
}

// --- ratings ---

type ratingRepo struct{ s *Store }

func (r ratingRepo) ListByJob(_ context.Context, jobID int64) ([]models.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Rating{}
	for _, rt := range r.s.st.ratings {
		if rt.JobID == jobID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r ratingRepo) Reputation(_ context.Context, userID int64) (*models.Reputation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rep := &models.Reputation{UserID: userID}
	var score, punct, quality, compliance int
	for _, rt := range r.s.st.ratings {
		if rt.ToUserID != userID || !rt.IsLatest {
			continue
		}
		rep.Count++
		score += rt.Score
		punct += rt.Punctuality
		quality += rt.Quality
		compliance += rt.Compliance
	}
	if rep.Count > 0 {
		n := float64(rep.Count)
		rep.AvgScore = float64(score) / n
		rep.AvgPunctuality = float64(punct) / n
		rep.AvgQuality = float64(quality) / n
		rep.AvgCompliance = float64(compliance) / n
	}
	return rep, nil
}

// --- transactional handle ---

type jobTx struct {
	st  *state
	now func() time.Time
}

func (t *jobTx) SaveJob(_ context.Context, j *models.Job) error {
	if _, ok := t.st.jobs[j.ID]; !ok {
		return storage.ErrNotFound
	}
	saved := j.Clone()
	saved.RecomputeDerived()
	saved.UpdatedAt = t.now()
	t.st.jobs[j.ID] = *saved
	*j = *saved.Clone()
	return nil
}

func (t *jobTx) CreateApplication(_ context.Context, a *models.Application) (*models.Application, error) {
	for _, existing := range t.st.applications {
		if existing.JobID == a.JobID && existing.ProviderID == a.ProviderID && existing.Status == models.ApplicationStatusPending {
			return nil, fmt.Errorf("pending application for job %d: %w", a.JobID, storage.ErrDuplicate)
		}
	}
	created := *a
	created.ID = t.st.nextID()
	created.CreatedAt = t.now()
	created.UpdatedAt = created.CreatedAt
	t.st.applications[created.ID] = created
	return &created, nil
}

func (t *jobTx) GetApplication(_ context.Context, id int64) (*models.Application, error) {
	a, ok := t.st.applications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (t *jobTx) HasPendingApplication(_ context.Context, jobID, providerID int64) (bool, error) {
	for _, a := range t.st.applications {
		if a.JobID == jobID && a.ProviderID == providerID && a.Status == models.ApplicationStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (t *jobTx) SetApplicationStatus(_ context.Context, id int64, status models.ApplicationStatus) error {
	a, ok := t.st.applications[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = t.now()
	t.st.applications[id] = a
	return nil
}

func (t *jobTx) RejectPendingApplications(_ context.Context, jobID, exceptID int64) (int64, error) {
	var n int64
	for id, a := range t.st.applications {
		if a.JobID != jobID || a.ID == exceptID || a.Status != models.ApplicationStatusPending {
			continue
		}
		a.Status = models.ApplicationStatusRejected
		a.UpdatedAt = t.now()
		t.st.applications[id] = a
		n++
	}
	return n, nil
}

func (t *jobTx) AppendMessage(_ context.Context, m *models.Message) (*models.Message, error) {
	created := *m
	created.ID = t.st.nextID()
	created.SentAt = t.now()
	t.st.messages = append(t.st.messages, created)
	return &created, nil
}

func (t *jobTx) HasRating(_ context.Context, jobID int64, fromRole models.Role) (bool, error) {
	for _, rt := range t.st.ratings {
		if rt.JobID == jobID && rt.FromRole == fromRole {
			return true, nil
		}
	}
	return false, nil
}

func (t *jobTx) CreateRating(_ context.Context, r *models.Rating) (*models.Rating, error) {
	for i, rt := range t.st.ratings {
		if rt.JobID == r.JobID && rt.FromRole == r.FromRole {
			return nil, fmt.Errorf("rating for job %d from %s: %w", r.JobID, r.FromRole, storage.ErrDuplicate)
		}
		if rt.FromUserID == r.FromUserID && rt.ToUserID == r.ToUserID {
			t.st.ratings[i].IsLatest = false
		}
	}
	created := *r
	created.ID = t.st.nextID()
	created.IsLatest = true
	created.CreatedAt = t.now()
	t.st.ratings = append(t.st.ratings, created)
	return &created, nil
}
