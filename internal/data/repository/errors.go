package repository

import "errors"

var (
	// ErrTicketCodeTaken - insert tiket bentrok di constraint ticket_code
	ErrTicketCodeTaken = errors.New("ticket code already exists")
	// ErrSeatTaken - kursi sudah punya tiket aktif untuk function yang sama
	ErrSeatTaken = errors.New("seat already has an active ticket")
	// ErrFunctionOverlap - jadwal bentrok dengan function lain di hall yang sama
	ErrFunctionOverlap = errors.New("function overlaps another function in the hall")
	// ErrEmailTaken / ErrUsernameTaken - insert/update user bentrok di constraint unique
	ErrEmailTaken    = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already exists")
	// ErrOrderIDTaken - order_id booking bentrok, generate ulang
	ErrOrderIDTaken = errors.New("order id already exists")
	// ErrNotInTransaction is returned by lock helpers called outside WithTx.
	ErrNotInTransaction = errors.New("advisory lock requires a transaction")
)

const (
	constraintTicketCode      = "tickets_ticket_code_key"
	constraintSeatActive      = "tickets_function_seat_active_key"
	constraintFunctionOverlap = "functions_no_overlap"
	constraintUserEmail       = "users_email_key"
	constraintUserUsername    = "users_username_key"
	constraintBookingOrderID  = "bookings_order_id_key"
)
