package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"comment-service/internal/domain"
	"comment-service/internal/repository"
)

// fakeCommentRepo is an in-memory CommentRepository with the same version
// semantics as the Postgres implementation: Save is conditioned on the
// version read earlier and bumps it on success.
type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]domain.Comment
	authors  map[string]domain.User

	// failNextSave makes the next Save return ErrVersionConflict.
	failNextSave bool
	// afterExpiredScan runs after FindExpiredSoftDeleted returns its
	// snapshot, before the caller sees it. Lets tests race a restore
	// against the sweeper.
	afterExpiredScan func()
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[string]domain.Comment),
		authors:  make(map[string]domain.User),
	}
}

func (r *fakeCommentRepo) addAuthor(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authors[u.ID] = u
}

func (r *fakeCommentRepo) Insert(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[c.ID] = *c
	return nil
}

func (r *fakeCommentRepo) Get(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCommentRepo) GetWithAuthor(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	r.hydrate(&c)
	return &c, nil
}

func (r *fakeCommentRepo) FindByParent(_ context.Context, parentID string) ([]domain.Comment, error) {
	return r.FindByParents(context.Background(), []string{parentID})
}

func (r *fakeCommentRepo) FindByParents(_ context.Context, parentIDs []string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	var out []domain.Comment
	for _, c := range r.comments {
		if c.ParentID != nil && wanted[*c.ParentID] {
			r.hydrate(&c)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) FindRootsPaged(_ context.Context, offset, limit int) ([]domain.Comment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var roots []domain.Comment
	for _, c := range r.comments {
		if c.ParentID == nil {
			r.hydrate(&c)
			roots = append(roots, c)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].CreatedAt.After(roots[j].CreatedAt) })
	total := len(roots)
	if offset >= len(roots) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(roots) {
		end = len(roots)
	}
	return roots[offset:end], total, nil
}

func (r *fakeCommentRepo) FindByAuthorDeleted(_ context.Context, authorID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, c := range r.comments {
		if c.AuthorID == authorID && c.IsDeleted {
			r.hydrate(&c)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (r *fakeCommentRepo) FindExpiredSoftDeleted(_ context.Context, cutoff time.Time) ([]domain.Comment, error) {
	r.mu.Lock()
	var out []domain.Comment
	for _, c := range r.comments {
		if c.IsDeleted && c.DeletedAt != nil && c.DeletedAt.Before(cutoff) {
			out = append(out, c)
		}
	}
	hook := r.afterExpiredScan
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *fakeCommentRepo) Save(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNextSave {
		r.failNextSave = false
		return repository.ErrVersionConflict
	}
	stored, ok := r.comments[c.ID]
	if !ok || stored.Version != c.Version {
		return repository.ErrVersionConflict
	}
	c.Version++
	saved := *c
	saved.Author = nil
	r.comments[c.ID] = saved
	return nil
}

func (r *fakeCommentRepo) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) RemoveIfExpired(_ context.Context, id string, cutoff time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || !c.IsDeleted || c.DeletedAt == nil || !c.DeletedAt.Before(cutoff) {
		return false, nil
	}
	delete(r.comments, id)
	return true, nil
}

func (r *fakeCommentRepo) hydrate(c *domain.Comment) {
	if u, ok := r.authors[c.AuthorID]; ok {
		author := u
		c.Author = &author
	}
}

// notifyCall records one delivery attempt against the fake sink.
type notifyCall struct {
	RecipientID string
	Message     string
	CommentID   string
}

// fakeNotifier records notifications and signals each call on a channel so
// tests can wait for the async dispatch.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
	ch    chan notifyCall
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan notifyCall, 8)}
}

func (n *fakeNotifier) Notify(_ context.Context, recipientID, message, relatedCommentID string) error {
	call := notifyCall{RecipientID: recipientID, Message: message, CommentID: relatedCommentID}
	n.mu.Lock()
	n.calls = append(n.calls, call)
	err := n.err
	n.mu.Unlock()
	n.ch <- call
	return err
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

// waitForCall blocks until a notification is delivered or the timeout fires.
func (n *fakeNotifier) waitForCall(timeout time.Duration) (notifyCall, bool) {
	select {
	case call := <-n.ch:
		return call, true
	case <-time.After(timeout):
		return notifyCall{}, false
	}
}
