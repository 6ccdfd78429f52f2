package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUpstream marks a failed authorization lookup. Callers must treat it as
// an internal fault and deny, never grant.
var ErrUpstream = errors.New("authorization lookup failed")

type AssignmentStore interface {
	Exists(ctx context.Context, aid, cid int64) (bool, error)
	ListClassIDs(ctx context.Context, aid int64) ([]int64, error)
	StudentClass(ctx context.Context, sid int64) (int64, error)
	CountdownClass(ctx context.Context, id int64) (int64, error)
}

// AccessService decides class-scoped access. Superadmins bypass every lookup;
// admins need an admin_class assignment row.
type AccessService struct {
	repo    AssignmentStore
	timeout time.Duration
}

type AccessOption func(*AccessService)

func WithLookupTimeout(d time.Duration) AccessOption {
	return func(s *AccessService) { s.timeout = d }
}

func NewAccessService(repo AssignmentStore, opts ...AccessOption) *AccessService {
	s := &AccessService{
		repo:    repo,
		timeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AccessService) HasClassAccess(ctx context.Context, identity *CallerIdentity, cid int64) (bool, error) {
	if identity.IsSuperAdmin() {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ok, err := s.repo.Exists(ctx, identity.AID, cid)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return ok, nil
}

// AccessibleClassIDs returns the classes an identity may touch. all=true
// means every class (superadmin) and ids is nil in that case.
func (s *AccessService) AccessibleClassIDs(ctx context.Context, identity *CallerIdentity) (ids []int64, all bool, err error) {
	if identity.IsSuperAdmin() {
		return nil, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ids, err = s.repo.ListClassIDs(ctx, identity.AID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return ids, false, nil
}

// HasStudentAccess resolves the student's owning class and delegates to the
// class check. found=false means the student record does not exist; that is
// not a denial - the handler's own not-found response must win.
func (s *AccessService) HasStudentAccess(ctx context.Context, identity *CallerIdentity, sid int64) (granted, found bool, err error) {
	if identity.IsSuperAdmin() {
		return true, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cid, err := s.repo.StudentClass(ctx, sid)
	if err != nil {
		return false, false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if cid == 0 {
		return false, false, nil
	}

	ok, err := s.repo.Exists(ctx, identity.AID, cid)
	if err != nil {
		return false, true, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return ok, true, nil
}

// HasCountdownAccess mirrors HasStudentAccess for countdown records.
func (s *AccessService) HasCountdownAccess(ctx context.Context, identity *CallerIdentity, id int64) (granted, found bool, err error) {
	if identity.IsSuperAdmin() {
		return true, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cid, err := s.repo.CountdownClass(ctx, id)
	if err != nil {
		return false, false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if cid == 0 {
		return false, false, nil
	}

	ok, err := s.repo.Exists(ctx, identity.AID, cid)
	if err != nil {
		return false, true, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return ok, true, nil
}
