package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore implements every repository against maps. WithTx serializes
// transactions on one mutex and restores a snapshot when fn fails.

type memTxKey struct{}

func inMemTx(ctx context.Context) bool {
	return ctx.Value(memTxKey{}) != nil
}

type memData struct {
	users         map[uuid.UUID]*entity.User
	sessions      map[uuid.UUID]*entity.Session
	movies        map[uuid.UUID]*entity.Movie
	halls         map[uuid.UUID]*entity.Hall
	seats         map[uuid.UUID]*entity.Seat
	functions     map[uuid.UUID]*entity.Function
	bookings      map[uuid.UUID]*entity.Booking
	tickets       map[uuid.UUID]*entity.Ticket
	combos        map[uuid.UUID]*entity.Combo
	attachments   map[uuid.UUID]*entity.ComboAttachment
	methods       map[uuid.UUID]*entity.PaymentMethod
	payments      map[uuid.UUID]*entity.Payment
	notifications map[uuid.UUID]*entity.Notification
}

func newMemData() *memData {
	return &memData{
		users:         map[uuid.UUID]*entity.User{},
		sessions:      map[uuid.UUID]*entity.Session{},
		movies:        map[uuid.UUID]*entity.Movie{},
		halls:         map[uuid.UUID]*entity.Hall{},
		seats:         map[uuid.UUID]*entity.Seat{},
		functions:     map[uuid.UUID]*entity.Function{},
		bookings:      map[uuid.UUID]*entity.Booking{},
		tickets:       map[uuid.UUID]*entity.Ticket{},
		combos:        map[uuid.UUID]*entity.Combo{},
		attachments:   map[uuid.UUID]*entity.ComboAttachment{},
		methods:       map[uuid.UUID]*entity.PaymentMethod{},
		payments:      map[uuid.UUID]*entity.Payment{},
		notifications: map[uuid.UUID]*entity.Notification{},
	}
}

func cloneMap[T any](m map[uuid.UUID]*T) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func (d *memData) clone() *memData {
	return &memData{
		users:         cloneMap(d.users),
		sessions:      cloneMap(d.sessions),
		movies:        cloneMap(d.movies),
		halls:         cloneMap(d.halls),
		seats:         cloneMap(d.seats),
		functions:     cloneMap(d.functions),
		bookings:      cloneMap(d.bookings),
		tickets:       cloneMap(d.tickets),
		combos:        cloneMap(d.combos),
		attachments:   cloneMap(d.attachments),
		methods:       cloneMap(d.methods),
		payments:      cloneMap(d.payments),
		notifications: cloneMap(d.notifications),
	}
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type memStore struct {
	mu    sync.Mutex
	data  *memData
	clock *testClock

	lockMu      sync.Mutex
	failures    map[uuid.UUID]int
	lockedUntil map[uuid.UUID]time.Time
	maxAttempts int
	lockFor     time.Duration
}

func newMemStore(clock *testClock) *memStore {
	return &memStore{
		data:        newMemData(),
		clock:       clock,
		failures:    map[uuid.UUID]int{},
		lockedUntil: map[uuid.UUID]time.Time{},
		maxAttempts: 3,
		lockFor:     15 * time.Minute,
	}
}

// guard locks the store unless ctx already runs inside WithTx.
func (s *memStore) guard(ctx context.Context) func() {
	if inMemTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inMemTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *memStore) repositories() *repository.Repository {
	return &repository.Repository{
		Tx:            s,
		User:          memUsers{s},
		Session:       memSessions{s},
		Lockout:       memLockout{s},
		Movie:         memMovies{s},
		Hall:          memHalls{s},
		Seat:          memSeats{s},
		Function:      memFunctions{s},
		Booking:       memBookings{s},
		Ticket:        memTickets{s},
		Combo:         memCombos{s},
		PaymentMethod: memPaymentMethods{s},
		Payment:       memPayments{s},
		Notification:  memNotifications{s},
	}
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func uuidLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// ==================== USERS & SESSIONS ====================

type memUsers struct{ *memStore }

// unique users_email_key / users_username_key
func (r memUsers) unique(user *entity.User) error {
	for _, u := range r.data.users {
		if u.ID == user.ID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailTaken
		}
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	return nil
}

func (r memUsers) Create(ctx context.Context, user *entity.User) error {
	defer r.guard(ctx)()
	if err := r.unique(user); err != nil {
		return err
	}
	r.data.users[user.ID] = copyOf(user)
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.guard(ctx)()
	if u, ok := r.data.users[id]; ok {
		return copyOf(u), nil
	}
	return nil, nil
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.guard(ctx)()
	for _, u := range r.data.users {
		if strings.EqualFold(u.Email, email) {
			return copyOf(u), nil
		}
	}
	return nil, nil
}

func (r memUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	defer r.guard(ctx)()
	for _, u := range r.data.users {
		if u.Username == username {
			return copyOf(u), nil
		}
	}
	return nil, nil
}

func (r memUsers) Update(ctx context.Context, user *entity.User) error {
	defer r.guard(ctx)()
	if _, ok := r.data.users[user.ID]; !ok {
		return errors.New("users: no rows")
	}
	if err := r.unique(user); err != nil {
		return err
	}
	r.data.users[user.ID] = copyOf(user)
	return nil
}

func (r memUsers) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	defer r.guard(ctx)()
	u, ok := r.data.users[id]
	if !ok {
		return errors.New("users: no rows")
	}
	u.LastLoginAt = &at
	return nil
}

type memSessions struct{ *memStore }

func (r memSessions) Create(ctx context.Context, session *entity.Session) error {
	defer r.guard(ctx)()
	r.data.sessions[session.ID] = copyOf(session)
	return nil
}

func (r memSessions) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	defer r.guard(ctx)()
	tok, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	for _, s := range r.data.sessions {
		if s.Token == tok && s.Active(r.clock.Now()) {
			return copyOf(s), nil
		}
	}
	return nil, nil
}

func (r memSessions) Revoke(ctx context.Context, token string) error {
	defer r.guard(ctx)()
	tok, err := uuid.Parse(token)
	if err != nil {
		return repository.ErrSessionNotFound
	}
	for _, s := range r.data.sessions {
		if s.Token == tok && s.RevokedAt == nil {
			now := r.clock.Now()
			s.RevokedAt = &now
			return nil
		}
	}
	return repository.ErrSessionNotFound
}

func (r memSessions) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	defer r.guard(ctx)()
	now := r.clock.Now()
	for _, s := range r.data.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

// memLockout follows the redis script: the lock key expires on its own.
type memLockout struct{ *memStore }

func (r memLockout) RegisterFailure(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()

	r.failures[userID]++
	attempts := r.failures[userID]
	if attempts >= r.maxAttempts {
		r.lockedUntil[userID] = r.clock.Now().Add(r.lockFor)
		delete(r.failures, userID)
		return attempts, true, nil
	}
	return attempts, false, nil
}

func (r memLockout) Reset(ctx context.Context, userID uuid.UUID) error {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	delete(r.failures, userID)
	return nil
}

func (r memLockout) IsLocked(ctx context.Context, userID uuid.UUID) (bool, error) {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	until, ok := r.lockedUntil[userID]
	return ok && r.clock.Now().Before(until), nil
}

// ==================== CATALOG ====================

type memMovies struct{ *memStore }

func (r memMovies) Create(ctx context.Context, movie *entity.Movie) error {
	defer r.guard(ctx)()
	r.data.movies[movie.ID] = copyOf(movie)
	return nil
}

func (r memMovies) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	defer r.guard(ctx)()
	if m, ok := r.data.movies[id]; ok && m.DeletedAt == nil {
		return copyOf(m), nil
	}
	return nil, nil
}

func (r memMovies) FindAll(ctx context.Context, filter repository.MovieFilter) ([]*entity.Movie, int64, error) {
	defer r.guard(ctx)()

	var all []*entity.Movie
	for _, m := range r.data.movies {
		if m.DeletedAt != nil {
			continue
		}
		if filter.OnlyAvailable && !m.ShowingOn(r.clock.Now()) {
			continue
		}
		if filter.Genre != "" && m.Genre != filter.Genre {
			continue
		}
		all = append(all, copyOf(m))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].ReleaseDate.Equal(all[j].ReleaseDate) {
			return all[i].ReleaseDate.After(all[j].ReleaseDate)
		}
		return all[i].Title < all[j].Title
	})

	return paginate(all, filter.Limit, filter.Offset), int64(len(all)), nil
}

func (r memMovies) Update(ctx context.Context, movie *entity.Movie) error {
	defer r.guard(ctx)()
	if _, ok := r.data.movies[movie.ID]; !ok {
		return errors.New("movies: no rows")
	}
	r.data.movies[movie.ID] = copyOf(movie)
	return nil
}

func (r memMovies) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.guard(ctx)()
	m, ok := r.data.movies[id]
	if !ok || m.DeletedAt != nil {
		return errors.New("movies: no rows")
	}
	now := r.clock.Now()
	m.DeletedAt = &now
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type memHalls struct{ *memStore }

func (r memHalls) Create(ctx context.Context, hall *entity.Hall) error {
	defer r.guard(ctx)()
	for _, h := range r.data.halls {
		if h.Name == hall.Name {
			return errors.New("halls: unique violation")
		}
	}
	r.data.halls[hall.ID] = copyOf(hall)
	return nil
}

func (r memHalls) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	defer r.guard(ctx)()
	if h, ok := r.data.halls[id]; ok && h.DeletedAt == nil {
		return copyOf(h), nil
	}
	return nil, nil
}

func (r memHalls) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	return r.FindByID(ctx, id)
}

func (r memHalls) FindAll(ctx context.Context) ([]*entity.Hall, error) {
	defer r.guard(ctx)()
	var halls []*entity.Hall
	for _, h := range r.data.halls {
		if h.DeletedAt == nil {
			halls = append(halls, copyOf(h))
		}
	}
	sort.Slice(halls, func(i, j int) bool { return halls[i].Name < halls[j].Name })
	return halls, nil
}

func (r memHalls) Update(ctx context.Context, hall *entity.Hall) error {
	defer r.guard(ctx)()
	if _, ok := r.data.halls[hall.ID]; !ok {
		return errors.New("halls: no rows")
	}
	r.data.halls[hall.ID] = copyOf(hall)
	return nil
}

func (r memHalls) HasFunctions(ctx context.Context, hallID uuid.UUID) (bool, error) {
	defer r.guard(ctx)()
	for _, f := range r.data.functions {
		if f.HallID == hallID && f.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (r memHalls) HasTickets(ctx context.Context, hallID uuid.UUID) (bool, error) {
	defer r.guard(ctx)()
	for _, t := range r.data.tickets {
		if seat, ok := r.data.seats[t.SeatID]; ok && seat.HallID == hallID {
			return true, nil
		}
	}
	return false, nil
}

type memSeats struct{ *memStore }

func (r memSeats) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	defer r.guard(ctx)()
	for _, s := range seats {
		r.data.seats[s.ID] = copyOf(s)
	}
	return nil
}

func sortSeats(seats []*entity.Seat) {
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Number < seats[j].Number
	})
}

func (r memSeats) FindByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Seat, error) {
	defer r.guard(ctx)()
	var seats []*entity.Seat
	for _, s := range r.data.seats {
		if s.HallID == hallID {
			seats = append(seats, copyOf(s))
		}
	}
	sortSeats(seats)
	return seats, nil
}

func (r memSeats) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Seat, error) {
	defer r.guard(ctx)()
	var seats []*entity.Seat
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if s, ok := r.data.seats[id]; ok && !seen[id] {
			seen[id] = true
			seats = append(seats, copyOf(s))
		}
	}
	sortSeats(seats)
	return seats, nil
}

func (r memSeats) DeleteByHallID(ctx context.Context, hallID uuid.UUID) error {
	defer r.guard(ctx)()
	// foreign key tickets.seat_id tanpa cascade
	for _, t := range r.data.tickets {
		if seat, ok := r.data.seats[t.SeatID]; ok && seat.HallID == hallID {
			return errors.New("seats: violates foreign key constraint tickets_seat_id_fkey")
		}
	}
	for id, s := range r.data.seats {
		if s.HallID == hallID {
			delete(r.data.seats, id)
		}
	}
	return nil
}

type memFunctions struct{ *memStore }

func (r memFunctions) overlaps(hallID uuid.UUID, startsAt, endsAt time.Time, excludeID uuid.UUID) bool {
	for _, f := range r.data.functions {
		if f.ID != excludeID && f.HallID == hallID && f.DeletedAt == nil &&
			f.StartsAt.Before(endsAt) && f.EndsAt.After(startsAt) {
			return true
		}
	}
	return false
}

func (r memFunctions) Create(ctx context.Context, function *entity.Function) error {
	defer r.guard(ctx)()
	// exclusion constraint functions_no_overlap
	if r.overlaps(function.HallID, function.StartsAt, function.EndsAt, function.ID) {
		return repository.ErrFunctionOverlap
	}
	r.data.functions[function.ID] = copyOf(function)
	return nil
}

func (r memFunctions) Update(ctx context.Context, function *entity.Function) error {
	defer r.guard(ctx)()
	if f, ok := r.data.functions[function.ID]; !ok || f.DeletedAt != nil {
		return errors.New("functions: no rows")
	}
	if r.overlaps(function.HallID, function.StartsAt, function.EndsAt, function.ID) {
		return repository.ErrFunctionOverlap
	}
	r.data.functions[function.ID] = copyOf(function)
	return nil
}

func (r memFunctions) FindByID(ctx context.Context, id uuid.UUID) (*entity.Function, error) {
	defer r.guard(ctx)()
	if f, ok := r.data.functions[id]; ok && f.DeletedAt == nil {
		return copyOf(f), nil
	}
	return nil, nil
}

func (r memFunctions) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Function, error) {
	if !inMemTx(ctx) {
		return nil, repository.ErrNotInTransaction
	}
	return r.FindByID(ctx, id)
}

func (r memFunctions) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Function, error) {
	if !inMemTx(ctx) {
		return nil, repository.ErrNotInTransaction
	}
	return r.FindByID(ctx, id)
}

func (r memFunctions) detail(f *entity.Function) *entity.FunctionDetail {
	d := &entity.FunctionDetail{Function: *f}
	if m, ok := r.data.movies[f.MovieID]; ok {
		d.MovieTitle = m.Title
	}
	if h, ok := r.data.halls[f.HallID]; ok {
		d.HallName = h.Name
	}
	return d
}

func (r memFunctions) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.FunctionDetail, error) {
	defer r.guard(ctx)()
	if f, ok := r.data.functions[id]; ok && f.DeletedAt == nil {
		return r.detail(f), nil
	}
	return nil, nil
}

func (r memFunctions) FindAll(ctx context.Context, filter repository.FunctionFilter) ([]*entity.FunctionDetail, error) {
	defer r.guard(ctx)()
	var list []*entity.FunctionDetail
	for _, f := range r.data.functions {
		if f.DeletedAt != nil {
			continue
		}
		if filter.MovieID != nil && f.MovieID != *filter.MovieID {
			continue
		}
		if filter.HallID != nil && f.HallID != *filter.HallID {
			continue
		}
		if filter.From != nil && !f.EndsAt.After(*filter.From) {
			continue
		}
		list = append(list, r.detail(f))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartsAt.Before(list[j].StartsAt) })
	return list, nil
}

func (r memFunctions) HasOverlap(ctx context.Context, hallID uuid.UUID, startsAt, endsAt time.Time, excludeID uuid.UUID) (bool, error) {
	defer r.guard(ctx)()
	return r.overlaps(hallID, startsAt, endsAt, excludeID), nil
}

func (r memFunctions) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.guard(ctx)()
	f, ok := r.data.functions[id]
	if !ok || f.DeletedAt != nil {
		return errors.New("functions: no rows")
	}
	now := r.clock.Now()
	f.DeletedAt = &now
	return nil
}

// ==================== BOOKINGS & TICKETS ====================

type memBookings struct{ *memStore }

func (r memBookings) Create(ctx context.Context, booking *entity.Booking) error {
	defer r.guard(ctx)()
	for _, b := range r.data.bookings {
		if b.OrderID == booking.OrderID {
			return repository.ErrOrderIDTaken
		}
	}
	r.data.bookings[booking.ID] = copyOf(booking)
	return nil
}

func (r memBookings) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	defer r.guard(ctx)()
	if b, ok := r.data.bookings[id]; ok {
		return copyOf(b), nil
	}
	return nil, nil
}

func (r memBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if !inMemTx(ctx) {
		return nil, repository.ErrNotInTransaction
	}
	return r.FindByID(ctx, id)
}

func (r memBookings) summary(b *entity.Booking) *entity.BookingSummary {
	s := &entity.BookingSummary{Booking: *b}
	for _, t := range r.data.tickets {
		if t.BookingID == b.ID && !t.Voided() {
			s.TicketCount++
			s.TicketTotalCents += t.PriceCents
		}
	}
	for _, a := range r.data.attachments {
		if a.BookingID == b.ID {
			s.ComboTotalCents += a.TotalPriceCents
		}
	}
	return s
}

func (r memBookings) FindSummaryByID(ctx context.Context, id uuid.UUID) (*entity.BookingSummary, error) {
	defer r.guard(ctx)()
	b, ok := r.data.bookings[id]
	if !ok {
		return nil, nil
	}
	return r.summary(b), nil
}

func (r memBookings) FindSummariesByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingSummary, int64, error) {
	defer r.guard(ctx)()
	var list []*entity.BookingSummary
	for _, b := range r.data.bookings {
		if b.UserID == userID {
			list = append(list, r.summary(b))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), int64(len(list)), nil
}

func (r memBookings) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	defer r.guard(ctx)()
	b, ok := r.data.bookings[id]
	if !ok {
		return errors.New("bookings: no rows")
	}
	b.Status = status
	b.UpdatedAt = at
	if status == entity.BookingStatusPaid {
		b.PaidAt = &at
	}
	return nil
}

func (r memBookings) ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	defer r.guard(ctx)()
	var ids []uuid.UUID
	for _, b := range r.data.bookings {
		if b.Status == entity.BookingStatusPending && !b.CreatedAt.After(cutoff) {
			b.Status = entity.BookingStatusExpired
			b.UpdatedAt = r.clock.Now()
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

type memTickets struct{ *memStore }

// holds reports whether t still blocks its seat.
func (r memTickets) holds(t *entity.Ticket) bool {
	if t.Voided() {
		return false
	}
	b, ok := r.data.bookings[t.BookingID]
	return ok && b.Status.Active()
}

func (r memTickets) LockUserFunction(ctx context.Context, userID, functionID uuid.UUID) error {
	if !inMemTx(ctx) {
		return repository.ErrNotInTransaction
	}
	return nil
}

func (r memTickets) LockSeat(ctx context.Context, functionID, seatID uuid.UUID) error {
	if !inMemTx(ctx) {
		return repository.ErrNotInTransaction
	}
	return nil
}

func (r memTickets) CountActiveByUserAndFunction(ctx context.Context, userID, functionID uuid.UUID) (int, error) {
	defer r.guard(ctx)()
	n := 0
	for _, t := range r.data.tickets {
		if t.FunctionID == functionID && r.holds(t) && r.data.bookings[t.BookingID].UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memTickets) CountActiveByFunction(ctx context.Context, functionID uuid.UUID) (int, error) {
	defer r.guard(ctx)()
	n := 0
	for _, t := range r.data.tickets {
		if t.FunctionID == functionID && r.holds(t) {
			n++
		}
	}
	return n, nil
}

func (r memTickets) available(functionID, seatID uuid.UUID) bool {
	for _, t := range r.data.tickets {
		if t.FunctionID == functionID && t.SeatID == seatID && r.holds(t) {
			return false
		}
	}
	return true
}

func (r memTickets) IsAvailable(ctx context.Context, functionID, seatID uuid.UUID) (bool, error) {
	defer r.guard(ctx)()
	return r.available(functionID, seatID), nil
}

func (r memTickets) Create(ctx context.Context, ticket *entity.Ticket) error {
	defer r.guard(ctx)()
	for _, t := range r.data.tickets {
		if t.TicketCode == ticket.TicketCode {
			return fmt.Errorf("insert ticket: %w", repository.ErrTicketCodeTaken)
		}
		// partial unique index (function_id, seat_id) WHERE voided_at IS NULL
		if t.FunctionID == ticket.FunctionID && t.SeatID == ticket.SeatID && !t.Voided() {
			return fmt.Errorf("insert ticket: %w", repository.ErrSeatTaken)
		}
	}
	r.data.tickets[ticket.ID] = copyOf(ticket)
	return nil
}

func (r memTickets) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error) {
	defer r.guard(ctx)()
	var list []*entity.Ticket
	for _, t := range r.data.tickets {
		if t.BookingID == bookingID {
			list = append(list, copyOf(t))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return uuidLess(list[i].ID, list[j].ID)
	})
	return list, nil
}

func (r memTickets) FindByCodeForUpdate(ctx context.Context, code string) (*entity.Ticket, error) {
	if !inMemTx(ctx) {
		return nil, repository.ErrNotInTransaction
	}
	for _, t := range r.data.tickets {
		if t.TicketCode == code {
			return copyOf(t), nil
		}
	}
	return nil, nil
}

func (r memTickets) MarkScanned(ctx context.Context, id uuid.UUID, at time.Time) error {
	defer r.guard(ctx)()
	t, ok := r.data.tickets[id]
	if !ok || t.IsScanned {
		return errors.New("tickets: no rows")
	}
	t.IsScanned = true
	t.ScannedAt = &at
	return nil
}

func (r memTickets) VoidByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID, at time.Time) (int64, error) {
	defer r.guard(ctx)()
	ids := make(map[uuid.UUID]bool, len(bookingIDs))
	for _, id := range bookingIDs {
		ids[id] = true
	}

	var n int64
	for _, t := range r.data.tickets {
		if ids[t.BookingID] && !t.Voided() {
			voidedAt := at
			t.VoidedAt = &voidedAt
			n++
		}
	}
	return n, nil
}

func (r memTickets) SeatMap(ctx context.Context, functionID uuid.UUID) ([]*entity.SeatStatus, error) {
	defer r.guard(ctx)()
	f, ok := r.data.functions[functionID]
	if !ok {
		return nil, nil
	}

	var seats []*entity.Seat
	for _, s := range r.data.seats {
		if s.HallID == f.HallID {
			seats = append(seats, s)
		}
	}
	sortSeats(seats)

	out := make([]*entity.SeatStatus, 0, len(seats))
	for _, s := range seats {
		out = append(out, &entity.SeatStatus{Seat: *s, Available: r.available(functionID, s.ID)})
	}
	return out, nil
}

// ==================== COMBOS & PAYMENTS ====================

type memCombos struct{ *memStore }

func (r memCombos) Create(ctx context.Context, combo *entity.Combo) error {
	defer r.guard(ctx)()
	r.data.combos[combo.ID] = copyOf(combo)
	return nil
}

func (r memCombos) FindByID(ctx context.Context, id uuid.UUID) (*entity.Combo, error) {
	defer r.guard(ctx)()
	if c, ok := r.data.combos[id]; ok && c.DeletedAt == nil {
		return copyOf(c), nil
	}
	return nil, nil
}

func (r memCombos) FindAllActive(ctx context.Context) ([]*entity.Combo, error) {
	defer r.guard(ctx)()
	var list []*entity.Combo
	for _, c := range r.data.combos {
		if c.IsActive && c.DeletedAt == nil {
			list = append(list, copyOf(c))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r memCombos) Update(ctx context.Context, combo *entity.Combo) error {
	defer r.guard(ctx)()
	if _, ok := r.data.combos[combo.ID]; !ok {
		return errors.New("combos: no rows")
	}
	r.data.combos[combo.ID] = copyOf(combo)
	return nil
}

func (r memCombos) CreateAttachment(ctx context.Context, a *entity.ComboAttachment) error {
	defer r.guard(ctx)()
	if a.Quantity < 1 || a.TotalPriceCents != int64(a.Quantity)*a.UnitPriceCents {
		return errors.New("combo_attachments: check violation")
	}
	r.data.attachments[a.ID] = copyOf(a)
	return nil
}

func (r memCombos) FindAttachmentsByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.ComboAttachment, error) {
	defer r.guard(ctx)()
	var list []*entity.ComboAttachment
	for _, a := range r.data.attachments {
		if a.BookingID == bookingID {
			list = append(list, copyOf(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

type memPaymentMethods struct{ *memStore }

func (r memPaymentMethods) FindByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	defer r.guard(ctx)()
	if m, ok := r.data.methods[id]; ok {
		return copyOf(m), nil
	}
	return nil, nil
}

func (r memPaymentMethods) FindAllActive(ctx context.Context) ([]*entity.PaymentMethod, error) {
	defer r.guard(ctx)()
	var list []*entity.PaymentMethod
	for _, m := range r.data.methods {
		if m.IsActive {
			list = append(list, copyOf(m))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type memPayments struct{ *memStore }

func (r memPayments) Create(ctx context.Context, payment *entity.Payment) error {
	defer r.guard(ctx)()
	for _, p := range r.data.payments {
		if p.BookingID == payment.BookingID {
			return errors.New("payments: unique violation")
		}
	}
	r.data.payments[payment.ID] = copyOf(payment)
	return nil
}

func (r memPayments) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	defer r.guard(ctx)()
	for _, p := range r.data.payments {
		if p.BookingID == bookingID {
			return copyOf(p), nil
		}
	}
	return nil, nil
}

// ==================== NOTIFICATIONS ====================

type memNotifications struct{ *memStore }

func (r memNotifications) Create(ctx context.Context, n *entity.Notification) error {
	defer r.guard(ctx)()
	r.data.notifications[n.ID] = copyOf(n)
	return nil
}

func (r memNotifications) byUser(userID uuid.UUID, keep func(*entity.Notification) bool) []*entity.Notification {
	var list []*entity.Notification
	for _, n := range r.data.notifications {
		if n.UserID == userID && keep(n) {
			list = append(list, copyOf(n))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (r memNotifications) FindByUser(ctx context.Context, userID uuid.UUID, includeArchived bool, limit, offset int) ([]*entity.Notification, int64, error) {
	defer r.guard(ctx)()
	list := r.byUser(userID, func(n *entity.Notification) bool {
		return includeArchived || n.Status != entity.NotificationArchived
	})
	return paginate(list, limit, offset), int64(len(list)), nil
}

func (r memNotifications) FindUnread(ctx context.Context, userID uuid.UUID) ([]*entity.Notification, error) {
	defer r.guard(ctx)()
	return r.byUser(userID, func(n *entity.Notification) bool {
		return n.Status == entity.NotificationUnread
	}), nil
}

func (r memNotifications) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error) {
	defer r.guard(ctx)()
	n, ok := r.data.notifications[id]
	if !ok || n.UserID != userID || n.Status == entity.NotificationArchived {
		return false, nil
	}
	n.Status = entity.NotificationRead
	if n.ReadAt == nil {
		n.ReadAt = &at
	}
	return true, nil
}

func (r memNotifications) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	defer r.guard(ctx)()
	var updated int64
	for _, n := range r.data.notifications {
		if n.UserID == userID && n.Status == entity.NotificationUnread {
			n.Status = entity.NotificationRead
			readAt := at
			n.ReadAt = &readAt
			updated++
		}
	}
	return updated, nil
}

func (r memNotifications) Archive(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	defer r.guard(ctx)()
	var archived int64
	for _, id := range ids {
		n, ok := r.data.notifications[id]
		if !ok || n.UserID != userID {
			continue
		}
		n.Status = entity.NotificationArchived
		archived++
	}
	return archived, nil
}

// ==================== FIXTURE ====================

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.TicketIssued
}

func (p *recordingPublisher) Publish(events []notification.TicketIssued) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) Events() []notification.TicketIssued {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notification.TicketIssued(nil), p.events...)
}

type blockList map[uuid.UUID]bool

func (b blockList) IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error) {
	return b[userID], nil
}

type fixture struct {
	clock    *testClock
	store    *memStore
	repo     *repository.Repository
	movie    *entity.Movie
	hall     *entity.Hall
	seats    map[string]*entity.Seat // by label, A1..B10
	function *entity.Function
	method   *entity.PaymentMethod
	combo    *entity.Combo
}

var fixtureNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &testClock{t: fixtureNow}
	store := newMemStore(clock)
	f := &fixture{
		clock: clock,
		store: store,
		repo:  store.repositories(),
		seats: map[string]*entity.Seat{},
	}

	f.movie = &entity.Movie{
		Base:            entity.NewBase(fixtureNow),
		Title:           "Dune: Part Two",
		Synopsis:        "Paul Atreides unites with the Fremen.",
		DurationMinutes: 166,
		Genre:           "Sci-Fi",
		ReleaseDate:     fixtureNow.AddDate(0, 0, -7),
		FinishDate:      fixtureNow.AddDate(0, 1, 0),
		Available:       true,
	}
	store.data.movies[f.movie.ID] = f.movie

	f.hall = &entity.Hall{
		Base:        entity.NewBase(fixtureNow),
		Name:        "Hall 1",
		Rows:        2,
		SeatsPerRow: 10,
		Available:   true,
	}
	store.data.halls[f.hall.ID] = f.hall
	for _, seat := range seatGrid(f.hall, fixtureNow) {
		store.data.seats[seat.ID] = seat
		f.seats[seat.Label()] = seat
	}

	f.function = &entity.Function{
		Base:       entity.NewBase(fixtureNow),
		MovieID:    f.movie.ID,
		HallID:     f.hall.ID,
		StartsAt:   fixtureNow.Add(24 * time.Hour),
		EndsAt:     fixtureNow.Add(27 * time.Hour),
		PriceCents: 5000,
		Language:   entity.LanguageSubtitled,
		Format:     entity.Format2D,
	}
	store.data.functions[f.function.ID] = f.function

	f.method = &entity.PaymentMethod{
		BaseNoDelete: entity.NewBaseNoDelete(fixtureNow),
		Name:         "Credit Card",
		IsActive:     true,
	}
	store.data.methods[f.method.ID] = f.method

	f.combo = &entity.Combo{
		Base:       entity.NewBase(fixtureNow),
		Name:       "Popcorn + Soda",
		PriceCents: 3500,
		IsActive:   true,
	}
	store.data.combos[f.combo.ID] = f.combo

	return f
}

func (f *fixture) seatIDs(labels ...string) []string {
	ids := make([]string, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, f.seats[l].ID.String())
	}
	return ids
}

func (f *fixture) reservation(blocks blockList) (*reservationService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewReservationService(f.repo, blocks, pub, zap.NewNop()).(*reservationService)
	svc.now = f.clock.Now
	return svc, pub
}

func (f *fixture) catalog() *catalogService {
	svc := NewCatalogService(f.repo, zap.NewNop()).(*catalogService)
	svc.now = f.clock.Now
	return svc
}

func (f *fixture) combos() *comboService {
	svc := NewComboService(f.repo, zap.NewNop()).(*comboService)
	svc.now = f.clock.Now
	return svc
}

// seedBooking inserts a booking directly, bypassing the engine.
func (f *fixture) seedBooking(userID uuid.UUID, status entity.BookingStatus, createdAt time.Time) *entity.Booking {
	b := &entity.Booking{
		BaseNoDelete: entity.NewBaseNoDelete(createdAt),
		OrderID:      "BOOK-" + uuid.NewString()[:8],
		UserID:       userID,
		FunctionID:   f.function.ID,
		Status:       status,
	}
	f.store.data.bookings[b.ID] = copyOf(b)
	return b
}
