package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannelID = int64(-100500)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	reqs   map[int64]*Request

	failCreate bool
}

func newMemStore() *memStore { return &memStore{reqs: map[int64]*Request{}} }

func (m *memStore) Create(_ context.Context, userID int64, sub Submission) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return nil, errors.New("store down")
	}
	m.nextID++
	now := time.Now()
	r := &Request{ID: m.nextID, UserID: userID, Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	switch sub.Kind {
	case SubmissionCredentials:
		u, p := sub.Username, sub.Password
		r.SubmittedUsername, r.SubmittedPassword = &u, &p
	case SubmissionOrder:
		o := sub.OrderID
		r.OrderID = &o
	}
	m.reqs[r.ID] = r
	return copyReq(r), nil
}

func (m *memStore) Get(_ context.Context, id int64) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyReq(r), nil
}

func (m *memStore) Decide(_ context.Context, id int64, to Status) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Status != StatusPending {
		return nil, ErrAlreadyProcessed
	}
	r.Status = to
	r.UpdatedAt = time.Now()
	return copyReq(r), nil
}

func (m *memStore) SetInviteLink(_ context.Context, id int64, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return ErrNotFound
	}
	r.InviteLink = &link
	return nil
}

func (m *memStore) RevokeByLink(_ context.Context, link string) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reqs {
		if r.InviteLink != nil && *r.InviteLink == link && !r.IsRevoked {
			r.IsRevoked = true
			return copyReq(r), nil
		}
	}
	return nil, nil
}

func (m *memStore) FindPending(_ context.Context, userID int64) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reqs {
		if r.UserID == userID && r.Status == StatusPending {
			return copyReq(r), nil
		}
	}
	return nil, nil
}

func (m *memStore) FindUnrevokedApproved(_ context.Context, userID int64) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reqs {
		if r.UserID == userID && r.LiveLink() {
			return copyReq(r), nil
		}
	}
	return nil, nil
}

func (m *memStore) ListPending(_ context.Context) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Request
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.reqs[id]; ok && r.Status == StatusPending {
			out = append(out, *copyReq(r))
		}
	}
	return out, nil
}

func (m *memStore) ListRecent(_ context.Context, limit int) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Request
	for id := m.nextID; id >= 1 && len(out) < limit; id-- {
		if r, ok := m.reqs[id]; ok {
			out = append(out, *copyReq(r))
		}
	}
	return out, nil
}

func copyReq(r *Request) *Request {
	c := *r
	return &c
}

type fakeIssuer struct {
	mu      sync.Mutex
	n       int
	failNew bool
	failRev bool
	revoked []string
}

func (f *fakeIssuer) CreateSingleUseInvite(_ context.Context, _ int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNew {
		return "", errors.New("issuer down")
	}
	f.n++
	return fmt.Sprintf("tok-%d", f.n), nil
}

func (f *fakeIssuer) RevokeInvite(_ context.Context, _ int64, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRev {
		return errors.New("revoke failed")
	}
	f.revoked = append(f.revoked, link)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	created  []int64
	approved []string // invite link per notification, "" when missing
	rejected []int64
	fail     bool
}

func (f *fakeNotifier) NewRequest(_ context.Context, req *Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("send failed")
	}
	f.created = append(f.created, req.ID)
	return nil
}

func (f *fakeNotifier) Approved(_ context.Context, req *Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("send failed")
	}
	link := ""
	if req.InviteLink != nil {
		link = *req.InviteLink
	}
	f.approved = append(f.approved, link)
	return nil
}

func (f *fakeNotifier) Rejected(_ context.Context, req *Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("send failed")
	}
	f.rejected = append(f.rejected, req.UserID)
	return nil
}

type fakeAuthz struct{ allowed map[int64]bool }

func (f fakeAuthz) HasCapability(_ context.Context, actorID int64, _ Capability) bool {
	return f.allowed[actorID]
}

type fakeOracle struct{ members map[int64]bool }

func (f fakeOracle) IsMember(_ context.Context, _ int64, userID int64) (bool, error) {
	return f.members[userID], nil
}

type fixture struct {
	svc    *Service
	store  *memStore
	issuer *fakeIssuer
	notify *fakeNotifier
}

func newFixture() *fixture {
	store := newMemStore()
	issuer := &fakeIssuer{}
	notify := &fakeNotifier{}
	authz := fakeAuthz{allowed: map[int64]bool{100: true}}
	oracle := fakeOracle{members: map[int64]bool{}}
	svc := NewService(slog.New(slog.DiscardHandler), store, issuer, oracle, notify, authz, testChannelID)
	return &fixture{svc: svc, store: store, issuer: issuer, notify: notify}
}

const adminID = int64(100)

func TestSubmitRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, 42, Credentials("alice", "p1"))
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, Credentials("alice", "p1"), got.Submission())
	assert.Equal(t, []int64{req.ID}, f.notify.created)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Submit(context.Background(), 42, Submission{Kind: SubmissionCredentials, Username: "a", Password: "b", OrderID: "1"})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestSubmitSinglePendingPerUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, 42, Order("1"))
	require.NoError(t, err)

	// любые чередования повторных подач упираются в pending-заявку
	for _, sub := range []Submission{Order("2"), Credentials("a", "b"), Order("3")} {
		_, err = f.svc.Submit(ctx, 42, sub)
		assert.ErrorIs(t, err, ErrPendingExists)
	}
	// у другого пользователя своя очередь
	_, err = f.svc.Submit(ctx, 7, Order("4"))
	require.NoError(t, err)

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// после решения можно подать снова
	_, err = f.svc.Decide(ctx, first.ID, false, adminID)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, 42, Order("5"))
	assert.NoError(t, err)
}

func TestSubmitPersistenceFailure(t *testing.T) {
	f := newFixture()
	f.store.failCreate = true

	_, err := f.svc.Submit(context.Background(), 42, Order("1"))
	require.Error(t, err)
	assert.Empty(t, f.notify.created)

	pending, _ := f.svc.ListPending(context.Background())
	assert.Empty(t, pending)
}

func TestDecideIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, 42, Order("1"))
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, req.ID, true, adminID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)

	_, err = f.svc.Decide(ctx, req.ID, true, adminID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	_, err = f.svc.Decide(ctx, req.ID, false, adminID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	got, err := f.svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	// повторные решения не выпускают новых ссылок
	assert.Len(t, f.notify.approved, 1)
}

func TestDecideNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Decide(context.Background(), 404, true, adminID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideUnauthorized(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req, err := f.svc.Submit(ctx, 42, Order("1"))
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, req.ID, true, 999)
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, _ := f.svc.Get(ctx, req.ID)
	assert.Equal(t, StatusPending, got.Status)
}

func TestApproveDegradedWhenIssuerFails(t *testing.T) {
	f := newFixture()
	f.issuer.failNew = true
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, 42, Order("1"))
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, req.ID, true, adminID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)
	assert.Nil(t, decided.InviteLink)

	got, _ := f.svc.Get(ctx, req.ID)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Nil(t, got.InviteLink)
}

func TestRejectNotifiesOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, 7, Order("999"))
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, req.ID, false, adminID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, decided.Status)
	assert.Nil(t, decided.InviteLink)
	assert.Equal(t, []int64{7}, f.notify.rejected)
	assert.Empty(t, f.issuer.revoked)
	assert.Empty(t, f.notify.approved)
}

func TestOnMemberJoinedUnknownTokenNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, 42, Order("1"))
	require.NoError(t, err)
	_, err = f.svc.Decide(ctx, req.ID, true, adminID)
	require.NoError(t, err)

	require.NoError(t, f.svc.OnMemberJoined(ctx, testChannelID, "tok-unknown", 42))

	got, _ := f.svc.Get(ctx, req.ID)
	assert.False(t, got.IsRevoked)
	assert.Empty(t, f.issuer.revoked)
}

func TestOnMemberJoinedWrongChannelNoop(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.OnMemberJoined(context.Background(), testChannelID+1, "tok-1", 42))
	assert.Empty(t, f.issuer.revoked)
}

func TestOnMemberJoinedRevokesOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, 42, Order("1"))
	require.NoError(t, err)
	decided, err := f.svc.Decide(ctx, req.ID, true, adminID)
	require.NoError(t, err)
	require.NotNil(t, decided.InviteLink)
	link := *decided.InviteLink

	require.NoError(t, f.svc.OnMemberJoined(ctx, testChannelID, link, 42))
	// дубль события — no-op
	require.NoError(t, f.svc.OnMemberJoined(ctx, testChannelID, link, 42))

	got, _ := f.svc.Get(ctx, req.ID)
	assert.True(t, got.IsRevoked)
	assert.Equal(t, []string{link}, f.issuer.revoked)
}

func TestRevokeFailureKeepsFlag(t *testing.T) {
	f := newFixture()
	f.issuer.failRev = true
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, 42, Order("1"))
	require.NoError(t, err)
	decided, err := f.svc.Decide(ctx, req.ID, true, adminID)
	require.NoError(t, err)

	require.NoError(t, f.svc.OnMemberJoined(ctx, testChannelID, *decided.InviteLink, 42))

	got, _ := f.svc.Get(ctx, req.ID)
	assert.True(t, got.IsRevoked)
}

func TestCredentialsScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, 42, Credentials("alice", "p1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.ID)
	assert.Equal(t, StatusPending, req.Status)

	decided, err := f.svc.Decide(ctx, req.ID, true, adminID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)
	require.NotNil(t, decided.InviteLink)
	assert.Equal(t, "tok-1", *decided.InviteLink)
	assert.Equal(t, []string{"tok-1"}, f.notify.approved)

	link, err := f.svc.UnrevokedInviteLink(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", link)

	require.NoError(t, f.svc.OnMemberJoined(ctx, testChannelID, "tok-1", 42))

	got, _ := f.svc.Get(ctx, req.ID)
	assert.True(t, got.IsRevoked)
	assert.Equal(t, []string{"tok-1"}, f.issuer.revoked)

	// действующей ссылки больше нет
	link, err = f.svc.UnrevokedInviteLink(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, link)
}

func TestListRecentNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, 1, Order("1"))
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, 2, Order("2"))
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, 3, Order("3"))
	require.NoError(t, err)

	recent, err := f.svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(3), recent[0].ID)
	assert.Equal(t, int64(2), recent[1].ID)

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, int64(1), pending[0].ID)
}
