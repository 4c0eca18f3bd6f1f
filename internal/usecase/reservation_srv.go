package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/internal/notification"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// HoldDuration is how long a pending booking keeps its seats.
	HoldDuration = 15 * time.Minute
	// MaxTicketsPerFunction caps the active tickets one user holds for one function.
	MaxTicketsPerFunction = 10

	maxCodeAttempts = 5
)

// TicketPublisher receives the events of committed tickets. Publish must not block.
type TicketPublisher interface {
	Publish(events []notification.TicketIssued)
}

// BlockChecker reports whether a user is inside a lockout window.
type BlockChecker interface {
	IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error)
}

type ReservationService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	SelectSeats(ctx context.Context, userID, bookingID uuid.UUID, req *request.SelectSeatsRequest) (*response.BookingResponse, error)
	// CancelBooking returns the number of released seats.
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) (*response.CancelBookingResponse, error)
	ExpireStaleBookings(ctx context.Context, now time.Time) (int, error)
	PayBooking(ctx context.Context, userID, bookingID uuid.UUID, req *request.PayBookingRequest) (*response.PaymentResponse, error)

	GetBooking(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) (*response.BookingResponse, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ScanTicket(ctx context.Context, code string) (*response.ScanTicketResponse, error)
	ListPaymentMethods(ctx context.Context) ([]response.PaymentMethodResponse, error)
}

type reservationService struct {
	repo       *repository.Repository
	blocks     BlockChecker
	publisher  TicketPublisher
	newCode    func() string
	newOrderID func(time.Time) string
	now        func() time.Time
	log        *zap.Logger
}

func NewReservationService(
	repo *repository.Repository,
	blocks BlockChecker,
	publisher TicketPublisher,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		repo:       repo,
		blocks:     blocks,
		publisher:  publisher,
		newCode:    utils.GenerateTicketCode,
		newOrderID: utils.GenerateOrderID,
		now:        time.Now,
		log:        log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	functionID, err := uuid.Parse(req.FunctionID)
	if err != nil {
		return nil, validationError("invalid function_id %q", req.FunctionID)
	}

	blocked, err := s.blocks.IsBlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrUserBlocked
	}

	now := s.now()
	function, err := s.repo.Function.FindByID(ctx, functionID)
	if err != nil {
		return nil, fmt.Errorf("find function %s: %w", functionID, err)
	}
	if function == nil || function.Ended(now) {
		return nil, ErrFunctionNotFound
	}

	booking := &entity.Booking{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		FunctionID:   functionID,
		Status:       entity.BookingStatusPending,
	}

	if err := s.insertBooking(ctx, booking, now); err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("user_id", userID.String()),
		zap.String("function_id", functionID.String()))

	resp := response.BookingToResponse(&entity.BookingSummary{Booking: *booking}, HoldDuration)
	return &resp, nil
}

func (s *reservationService) SelectSeats(ctx context.Context, userID, bookingID uuid.UUID, req *request.SelectSeatsRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Select seats validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, validationError("invalid seat id %q", raw)
		}
		seatIDs = append(seatIDs, id)
	}

	var events []notification.TicketIssued

	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		events = events[:0]
		now := s.now()

		// 1. Lock booking
		booking, err := s.lockOwnedBooking(ctx, userID, bookingID, false)
		if err != nil {
			return err
		}
		if booking.Status != entity.BookingStatusPending {
			return ErrInvalidBookingState
		}
		if booking.HoldExpired(now, HoldDuration) {
			return ErrHoldExpired
		}

		// 2. Batas tiket per user per function
		if err := s.repo.Ticket.LockUserFunction(ctx, userID, booking.FunctionID); err != nil {
			return fmt.Errorf("lock user %s function %s: %w", userID, booking.FunctionID, err)
		}
		held, err := s.repo.Ticket.CountActiveByUserAndFunction(ctx, userID, booking.FunctionID)
		if err != nil {
			return fmt.Errorf("count tickets of user %s: %w", userID, err)
		}
		if held+len(seatIDs) > MaxTicketsPerFunction {
			s.log.Warn("Ticket limit exceeded",
				zap.String("user_id", userID.String()),
				zap.Int("held", held),
				zap.Int("requested", len(seatIDs)))
			return ErrTicketLimitExceeded
		}

		// 3. Kursi dobel di request
		seen := make(map[uuid.UUID]struct{}, len(seatIDs))
		for _, id := range seatIDs {
			if _, dup := seen[id]; dup {
				return ErrDuplicateSeatRequest
			}
			seen[id] = struct{}{}
		}

		// 4. Semua kursi harus ada di hall function.
		// FOR SHARE menahan DeleteFunction/UpdateFunction sampai commit.
		function, err := s.repo.Function.FindByIDForShare(ctx, booking.FunctionID)
		if err != nil {
			return fmt.Errorf("find function %s: %w", booking.FunctionID, err)
		}
		if function == nil {
			return ErrFunctionNotFound
		}

		seats, err := s.repo.Seat.FindByIDs(ctx, seatIDs)
		if err != nil {
			return fmt.Errorf("find seats: %w", err)
		}
		byID := make(map[uuid.UUID]*entity.Seat, len(seats))
		for _, seat := range seats {
			if seat.HallID == function.HallID {
				byID[seat.ID] = seat
			}
		}
		for _, id := range seatIDs {
			if _, ok := byID[id]; !ok {
				return ErrSeatNotFound
			}
		}

		// email ikut di event supaya consumer tidak perlu lookup lagi
		var email string
		owner, err := s.repo.User.FindByID(ctx, booking.UserID)
		if err != nil {
			return fmt.Errorf("find user %s: %w", booking.UserID, err)
		}
		if owner != nil {
			email = owner.Email
		}

		// 5. Urutan lock selalu sama supaya tidak deadlock
		ordered := slices.Clone(seatIDs)
		slices.SortFunc(ordered, func(a, b uuid.UUID) int {
			return bytes.Compare(a[:], b[:])
		})

		for _, seatID := range ordered {
			if err := s.repo.Ticket.LockSeat(ctx, function.ID, seatID); err != nil {
				return fmt.Errorf("lock seat %s: %w", seatID, err)
			}

			available, err := s.repo.Ticket.IsAvailable(ctx, function.ID, seatID)
			if err != nil {
				return fmt.Errorf("check seat %s availability: %w", seatID, err)
			}
			if !available {
				return &SeatUnavailableError{SeatID: seatID}
			}

			ticket := &entity.Ticket{
				BaseSimple: entity.NewBaseSimple(now),
				BookingID:  booking.ID,
				FunctionID: function.ID,
				SeatID:     seatID,
				PriceCents: function.PriceCents,
			}
			if err := s.insertTicket(ctx, ticket); err != nil {
				return err
			}

			events = append(events, notification.TicketIssued{
				TicketID:   ticket.ID,
				TicketCode: ticket.TicketCode,
				BookingID:  booking.ID,
				OrderID:    booking.OrderID,
				UserID:     userID,
				UserEmail:  email,
				FunctionID: function.ID,
				SeatID:     seatID,
				SeatLabel:  byID[seatID].Label(),
				PriceCents: ticket.PriceCents,
				IssuedAt:   now,
			})
		}

		return nil
	})
	if err != nil {
		var unavailable *SeatUnavailableError
		if errors.As(err, &unavailable) {
			s.log.Warn("Seat unavailable",
				zap.String("booking_id", bookingID.String()),
				zap.String("seat_id", unavailable.SeatID.String()))
		}
		return nil, err
	}

	s.log.Info("Seats selected",
		zap.String("booking_id", bookingID.String()),
		zap.Int("tickets", len(events)))

	// event hanya setelah commit
	if s.publisher != nil {
		s.publisher.Publish(events)
	}

	return s.bookingResponse(ctx, bookingID)
}

// insertBooking retries with a fresh order id while the id collides.
func (s *reservationService) insertBooking(ctx context.Context, booking *entity.Booking, now time.Time) error {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		booking.OrderID = s.newOrderID(now)

		err := s.repo.Booking.Create(ctx, booking)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrOrderIDTaken):
			s.log.Warn("Order id collision, retrying",
				zap.String("order_id", booking.OrderID),
				zap.Int("attempt", attempt))
		default:
			return fmt.Errorf("create booking: %w", err)
		}
	}

	return fmt.Errorf("generate unique order id: gave up after %d attempts", maxCodeAttempts)
}

// insertTicket retries with a fresh code while the code collides.
func (s *reservationService) insertTicket(ctx context.Context, ticket *entity.Ticket) error {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		ticket.TicketCode = s.newCode()

		err := s.repo.Ticket.Create(ctx, ticket)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrTicketCodeTaken):
			s.log.Warn("Ticket code collision, retrying",
				zap.String("ticket_code", ticket.TicketCode),
				zap.Int("attempt", attempt))
		case errors.Is(err, repository.ErrSeatTaken):
			return &SeatUnavailableError{SeatID: ticket.SeatID}
		default:
			return fmt.Errorf("create ticket for seat %s: %w", ticket.SeatID, err)
		}
	}

	return fmt.Errorf("generate unique ticket code: gave up after %d attempts", maxCodeAttempts)
}

func (s *reservationService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) (*response.CancelBookingResponse, error) {
	var released int64

	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		booking, err := s.lockOwnedBooking(ctx, userID, bookingID, isAdmin)
		if err != nil {
			return err
		}
		if !booking.Status.Active() {
			return ErrInvalidBookingState
		}

		now := s.now()
		if err := s.repo.Booking.UpdateStatus(ctx, bookingID, entity.BookingStatusCancelled, now); err != nil {
			return fmt.Errorf("cancel booking %s: %w", bookingID, err)
		}

		released, err = s.repo.Ticket.VoidByBookingIDs(ctx, []uuid.UUID{bookingID}, now)
		if err != nil {
			return fmt.Errorf("void tickets of booking %s: %w", bookingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("by", userID.String()),
		zap.Bool("admin", isAdmin),
		zap.Int64("released_seats", released))

	return &response.CancelBookingResponse{
		BookingID:     bookingID.String(),
		ReleasedSeats: int(released),
	}, nil
}

func (s *reservationService) ExpireStaleBookings(ctx context.Context, now time.Time) (int, error) {
	var expired []uuid.UUID

	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		expired, err = s.repo.Booking.ExpirePendingBefore(ctx, now.Add(-HoldDuration))
		if err != nil {
			return fmt.Errorf("expire pending bookings: %w", err)
		}
		if len(expired) == 0 {
			return nil
		}

		if _, err := s.repo.Ticket.VoidByBookingIDs(ctx, expired, now); err != nil {
			return fmt.Errorf("void tickets of expired bookings: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(expired) > 0 {
		s.log.Info("Stale bookings expired", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}

func (s *reservationService) PayBooking(ctx context.Context, userID, bookingID uuid.UUID, req *request.PayBookingRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Pay booking validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	methodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, validationError("invalid payment_method_id %q", req.PaymentMethodID)
	}

	var (
		payment *entity.Payment
		method  *entity.PaymentMethod
	)

	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		now := s.now()

		booking, err := s.lockOwnedBooking(ctx, userID, bookingID, false)
		if err != nil {
			return err
		}
		if booking.Status != entity.BookingStatusPending {
			return ErrInvalidBookingState
		}
		if booking.HoldExpired(now, HoldDuration) {
			return ErrHoldExpired
		}

		function, err := s.repo.Function.FindByIDForShare(ctx, booking.FunctionID)
		if err != nil {
			return fmt.Errorf("find function %s: %w", booking.FunctionID, err)
		}
		if function == nil {
			return ErrFunctionNotFound
		}

		method, err = s.repo.PaymentMethod.FindByID(ctx, methodID)
		if err != nil {
			return fmt.Errorf("find payment method %s: %w", methodID, err)
		}
		if method == nil || !method.IsActive {
			return ErrPaymentMethodNotFound
		}

		summary, err := s.repo.Booking.FindSummaryByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("load booking %s total: %w", bookingID, err)
		}
		if summary == nil {
			return ErrBookingNotFound
		}
		if summary.TicketCount == 0 {
			return ErrEmptyBooking
		}
		if summary.TotalCents() != req.AmountCents {
			s.log.Warn("Payment amount mismatch",
				zap.String("booking_id", bookingID.String()),
				zap.Int64("expected", summary.TotalCents()),
				zap.Int64("got", req.AmountCents))
			return ErrAmountMismatch
		}

		payment = &entity.Payment{
			BaseNoDelete:    entity.NewBaseNoDelete(now),
			BookingID:       bookingID,
			PaymentMethodID: methodID,
			AmountCents:     req.AmountCents,
			Status:          entity.PaymentStatusCompleted,
			TransactionID:   uuid.New(),
		}
		if err := s.repo.Payment.Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment for booking %s: %w", bookingID, err)
		}

		if err := s.repo.Booking.UpdateStatus(ctx, bookingID, entity.BookingStatusPaid, now); err != nil {
			return fmt.Errorf("mark booking %s paid: %w", bookingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking paid",
		zap.String("booking_id", bookingID.String()),
		zap.String("transaction_id", payment.TransactionID.String()),
		zap.Int64("amount_cents", payment.AmountCents))

	resp := response.PaymentToResponse(payment, method)
	return &resp, nil
}

func (s *reservationService) GetBooking(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotOwner
	}

	return s.bookingResponse(ctx, bookingID)
}

func (s *reservationService) ListUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	summaries, total, err := s.repo.Booking.FindSummariesByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings of user %s: %w", userID, err)
	}

	data := make([]response.BookingResponse, 0, len(summaries))
	for _, summary := range summaries {
		data = append(data, response.BookingToResponse(summary, HoldDuration))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *reservationService) ScanTicket(ctx context.Context, code string) (*response.ScanTicketResponse, error) {
	var ticket *entity.Ticket

	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.repo.Ticket.FindByCodeForUpdate(ctx, code)
		if err != nil {
			return fmt.Errorf("find ticket %s: %w", code, err)
		}
		if ticket == nil {
			return ErrTicketNotFound
		}
		if ticket.Voided() {
			return ErrTicketNotValid
		}

		booking, err := s.repo.Booking.FindByID(ctx, ticket.BookingID)
		if err != nil {
			return fmt.Errorf("find booking %s: %w", ticket.BookingID, err)
		}
		if booking == nil || booking.Status != entity.BookingStatusPaid {
			return ErrTicketNotValid
		}
		if ticket.IsScanned {
			return ErrTicketAlreadyScanned
		}

		now := s.now()
		if err := s.repo.Ticket.MarkScanned(ctx, ticket.ID, now); err != nil {
			return fmt.Errorf("mark ticket %s scanned: %w", code, err)
		}
		ticket.IsScanned = true
		ticket.ScannedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Ticket scanned", zap.String("ticket_code", code))

	return &response.ScanTicketResponse{
		TicketCode: ticket.TicketCode,
		BookingID:  ticket.BookingID.String(),
		SeatID:     ticket.SeatID.String(),
		ScannedAt:  *ticket.ScannedAt,
	}, nil
}

func (s *reservationService) ListPaymentMethods(ctx context.Context) ([]response.PaymentMethodResponse, error) {
	methods, err := s.repo.PaymentMethod.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	resp := make([]response.PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		resp = append(resp, response.PaymentMethodToResponse(m))
	}
	return resp, nil
}

// ==================== HELPER METHODS ====================

// lockOwnedBooking locks the booking row. Must run inside a transaction.
func (s *reservationService) lockOwnedBooking(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByIDForUpdate(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("lock booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

func (s *reservationService) bookingResponse(ctx context.Context, bookingID uuid.UUID) (*response.BookingResponse, error) {
	summary, err := s.repo.Booking.FindSummaryByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	if summary == nil {
		return nil, ErrBookingNotFound
	}

	tickets, err := s.repo.Ticket.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load tickets of booking %s: %w", bookingID, err)
	}
	combos, err := s.repo.Combo.FindAttachmentsByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load combos of booking %s: %w", bookingID, err)
	}

	resp := response.BookingToResponse(summary, HoldDuration)
	for _, t := range tickets {
		resp.Tickets = append(resp.Tickets, response.TicketToResponse(t))
	}
	for _, c := range combos {
		resp.Combos = append(resp.Combos, response.ComboAttachmentToResponse(c))
	}

	if summary.Status == entity.BookingStatusPaid {
		payment, err := s.paymentOf(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		resp.Payment = payment
	}
	return &resp, nil
}

func (s *reservationService) paymentOf(ctx context.Context, bookingID uuid.UUID) (*response.PaymentResponse, error) {
	payment, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load payment of booking %s: %w", bookingID, err)
	}
	if payment == nil {
		return nil, nil
	}

	method, err := s.repo.PaymentMethod.FindByID(ctx, payment.PaymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("find payment method %s: %w", payment.PaymentMethodID, err)
	}
	if method == nil {
		method = &entity.PaymentMethod{BaseNoDelete: entity.BaseNoDelete{ID: payment.PaymentMethodID}}
	}

	resp := response.PaymentToResponse(payment, method)
	return &resp, nil
}
