package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingserrors "rentals/internal/bookings/errors"
	mongotx "rentals/pkg/db/mongo"
	"rentals/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type storeState struct {
	vehicles   map[int]*model.Vehicle
	requesters []*model.Requester
	bookings   []*model.Booking
}

func (s *storeState) clone() *storeState {
	c := &storeState{vehicles: make(map[int]*model.Vehicle, len(s.vehicles))}
	for id, v := range s.vehicles {
		vv := *v
		c.vehicles[id] = &vv
	}
	for _, r := range s.requesters {
		rr := *r
		c.requesters = append(c.requesters, &rr)
	}
	for _, b := range s.bookings {
		bb := *b
		c.bookings = append(c.bookings, &bb)
	}
	return c
}

// fakeStore is an in-memory stand-in for the Mongo collections. Transactions
// are serialized and work on a private copy that is only published on commit,
// which mirrors the outcome of the vehicle write lock.
type fakeStore struct {
	txMu   sync.Mutex
	dataMu sync.Mutex

	committed *storeState
	pending   *storeState
	nextID    int

	commits   int
	rollbacks int

	// calls records repository operations in order, guarded by dataMu.
	calls []string

	// hooks
	createBookingErr   error
	overlapErr         error
	requesterCreateErr []error // consumed one per Create call
	findByNameHook     func(call int) (req *model.Requester, handled bool, err error)
	findByNameCalls    int
}

var _ mongotx.TransactionManager = (*fakeStore)(nil)

func newFakeStore(vehicleIDs ...int) *fakeStore {
	st := &storeState{vehicles: map[int]*model.Vehicle{}}
	for _, id := range vehicleIDs {
		st.vehicles[id] = &model.Vehicle{ID: id, Name: fmt.Sprintf("vehicle-%d", id), VehicleTypeID: 1}
	}
	return &fakeStore{committed: st}
}

func (f *fakeStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	f.dataMu.Lock()
	f.pending = f.committed.clone()
	f.dataMu.Unlock()

	err := fn(mongo.NewSessionContext(ctx, nil))
	if err == nil {
		err = ctx.Err()
	}

	f.dataMu.Lock()
	defer f.dataMu.Unlock()
	if err == nil {
		f.committed = f.pending
		f.commits++
	} else {
		f.rollbacks++
	}
	f.pending = nil
	return err
}

// view must be called with dataMu held.
func (f *fakeStore) view(ctx context.Context) *storeState {
	if _, ok := ctx.(mongo.SessionContext); ok && f.pending != nil {
		return f.pending
	}
	return f.committed
}

// record must be called with dataMu held.
func (f *fakeStore) record(op string) {
	f.calls = append(f.calls, op)
}

func (f *fakeStore) callLog() []string {
	f.dataMu.Lock()
	defer f.dataMu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) committedVehicle(id int) model.Vehicle {
	f.dataMu.Lock()
	defer f.dataMu.Unlock()
	return *f.committed.vehicles[id]
}

func (f *fakeStore) newID() string {
	f.nextID++
	return fmt.Sprintf("%024x", f.nextID)
}

func (f *fakeStore) committedBookings() []*model.Booking {
	f.dataMu.Lock()
	defer f.dataMu.Unlock()
	return f.committed.clone().bookings
}

func (f *fakeStore) committedRequesters() []*model.Requester {
	f.dataMu.Lock()
	defer f.dataMu.Unlock()
	return f.committed.clone().requesters
}

func (f *fakeStore) seedBooking(vehicleID int, start, end time.Time) {
	f.dataMu.Lock()
	defer f.dataMu.Unlock()
	f.committed.bookings = append(f.committed.bookings, &model.Booking{
		ID:          f.newID(),
		RequesterID: "seed",
		VehicleID:   vehicleID,
		StartDate:   start,
		EndDate:     end,
	})
}

// bookings repository

type fakeBookingRepo struct{ *fakeStore }

func (r fakeBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	r.record("persist")
	if r.createBookingErr != nil {
		return r.createBookingErr
	}
	booking.ID = r.newID()
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	b := *booking
	st := r.view(ctx)
	st.bookings = append(st.bookings, &b)
	return nil
}

func (r fakeBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if len(id) != 24 {
		return nil, bookingserrors.ErrInvalidID
	}
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	for _, b := range r.view(ctx).bookings {
		if b.ID == id {
			bb := *b
			return &bb, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (r fakeBookingRepo) FindOverlapping(ctx context.Context, vehicleID int, start, end time.Time) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	r.record("overlap")
	if r.overlapErr != nil {
		return nil, r.overlapErr
	}
	var first *model.Booking
	for _, b := range r.view(ctx).bookings {
		if b.VehicleID != vehicleID || !b.StartDate.Before(end) || !b.EndDate.After(start) {
			continue
		}
		if first == nil || b.StartDate.Before(first.StartDate) {
			first = b
		}
	}
	if first == nil {
		return nil, nil
	}
	bb := *first
	return &bb, nil
}

func (r fakeBookingRepo) FindByVehicle(ctx context.Context, vehicleID int, limit int, offset int64) ([]*model.Booking, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	var out []*model.Booking
	for _, b := range r.view(ctx).bookings {
		if b.VehicleID == vehicleID {
			bb := *b
			out = append(out, &bb)
		}
	}
	if int(offset) >= len(out) {
		return []*model.Booking{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeBookingRepo) CountByVehicle(ctx context.Context, vehicleID int) (int64, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	var n int64
	for _, b := range r.view(ctx).bookings {
		if b.VehicleID == vehicleID {
			n++
		}
	}
	return n, nil
}

// vehicles repository

type fakeVehicleRepo struct{ *fakeStore }

func (r fakeVehicleRepo) LockForBooking(ctx context.Context, vehicleID int) (*model.Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	if _, inTx := ctx.(mongo.SessionContext); inTx {
		r.record("lock")
	} else {
		r.record("lock_outside_tx")
	}
	v, ok := r.view(ctx).vehicles[vehicleID]
	if !ok {
		return nil, bookingserrors.ErrVehicleNotFound
	}
	v.BookingSeq++
	vv := *v
	return &vv, nil
}

// requesters repository

type fakeRequesterRepo struct{ *fakeStore }

func (r fakeRequesterRepo) FindByName(ctx context.Context, firstName, lastName string) (*model.Requester, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	r.findByNameCalls++
	r.record("find_requester")
	if r.findByNameHook != nil {
		if req, handled, err := r.findByNameHook(r.findByNameCalls); handled {
			return req, err
		}
	}
	for _, req := range r.view(ctx).requesters {
		if req.FirstName == firstName && req.LastName == lastName {
			rr := *req
			return &rr, nil
		}
	}
	return nil, nil
}

func (r fakeRequesterRepo) Create(ctx context.Context, requester *model.Requester) error {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	if len(r.requesterCreateErr) > 0 {
		err := r.requesterCreateErr[0]
		r.requesterCreateErr = r.requesterCreateErr[1:]
		if err != nil {
			return err
		}
	}
	r.record("create_requester")
	st := r.view(ctx)
	for _, req := range st.requesters {
		if req.FirstName == requester.FirstName && req.LastName == requester.LastName {
			return fmt.Errorf("%w: duplicate", bookingserrors.ErrRequesterExists)
		}
	}
	requester.ID = r.newID()
	rr := *requester
	st.requesters = append(st.requesters, &rr)
	return nil
}

// publisher

type mockPublisher struct {
	mu        sync.Mutex
	published []*model.Booking
	err       error
}

func (m *mockPublisher) PublishBookingCreated(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, booking)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}
