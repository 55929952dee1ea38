package service

import (
	"context"
	"errors"
	"testing"

	bookingserrors "rentals/internal/bookings/errors"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/logger"
	"rentals/pkg/model"
)

func TestResolve_EmptyNames(t *testing.T) {
	r := NewIdentityResolver(fakeRequesterRepo{newFakeStore()}, logger.Discard())

	for _, names := range [][2]string{{"", "L"}, {"F", ""}, {"  ", "L"}} {
		_, err := r.Resolve(context.Background(), names[0], names[1])
		if !apperrors.IsKind(err, apperrors.CodeValidation) {
			t.Errorf("Resolve(%q, %q) should be a validation error, got %v", names[0], names[1], err)
		}
	}
}

func TestResolve_CreatesThenFinds(t *testing.T) {
	store := newFakeStore()
	r := NewIdentityResolver(fakeRequesterRepo{store}, logger.Discard())

	first, err := r.Resolve(context.Background(), "Grace", "Hopper")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Resolve(context.Background(), "Grace", "Hopper")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == "" || first != second {
		t.Errorf("expected stable id, got %q and %q", first, second)
	}
}

func TestResolve_NamesStoredVerbatim(t *testing.T) {
	store := newFakeStore()
	r := NewIdentityResolver(fakeRequesterRepo{store}, logger.Discard())

	if _, err := r.Resolve(context.Background(), " Grace", "Hopper "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.committed.requesters[0]
	if got.FirstName != " Grace" || got.LastName != "Hopper " {
		t.Errorf("names must not be normalized: %q %q", got.FirstName, got.LastName)
	}
}

func TestResolve_DuplicateKeyReReads(t *testing.T) {
	store := newFakeStore()
	winner := &model.Requester{ID: "winner", FirstName: "Grace", LastName: "Hopper"}
	store.requesterCreateErr = []error{bookingserrors.ErrRequesterExists}
	store.findByNameHook = func(call int) (*model.Requester, bool, error) {
		if call == 2 {
			return winner, true, nil
		}
		return nil, false, nil
	}
	r := NewIdentityResolver(fakeRequesterRepo{store}, logger.Discard())

	id, err := r.Resolve(context.Background(), "Grace", "Hopper")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "winner" {
		t.Errorf("expected the concurrent winner's id, got %q", id)
	}
}

func TestResolve_UnsettledRace(t *testing.T) {
	store := newFakeStore()
	store.requesterCreateErr = []error{bookingserrors.ErrRequesterExists}
	r := NewIdentityResolver(fakeRequesterRepo{store}, logger.Discard())

	_, err := r.Resolve(context.Background(), "Grace", "Hopper")
	if !errors.Is(err, bookingserrors.ErrIdentityRace) {
		t.Errorf("expected ErrIdentityRace, got %v", err)
	}
}

func TestResolve_StorageError(t *testing.T) {
	store := newFakeStore()
	cause := errors.New("socket closed")
	store.findByNameHook = func(int) (*model.Requester, bool, error) { return nil, true, cause }
	r := NewIdentityResolver(fakeRequesterRepo{store}, logger.Discard())

	_, err := r.Resolve(context.Background(), "Grace", "Hopper")
	if !errors.Is(err, cause) {
		t.Errorf("expected storage error, got %v", err)
	}
}
