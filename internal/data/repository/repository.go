package repository

import (
	"cinema-ticketing/pkg/database"
	"cinema-ticketing/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	Tx            TxManager
	User          UserRepository
	Session       SessionRepository
	Lockout       LockoutRepository
	Movie         MovieRepository
	Hall          HallRepository
	Seat          SeatRepository
	Function      FunctionRepository
	Booking       BookingRepository
	Ticket        TicketRepository
	Combo         ComboRepository
	PaymentMethod PaymentMethodRepository
	Payment       PaymentRepository
	Notification  NotificationRepository
}

func NewRepository(db database.PgxIface, rdb *redis.Client, config *utils.Config, log *zap.Logger) *Repository {
	return &Repository{
		Tx:            NewTxManager(db),
		User:          NewUserRepository(db, log),
		Session:       NewSessionRepository(db, log),
		Lockout:       NewLockoutRepository(rdb, config.Lockout, log),
		Movie:         NewMovieRepository(db, log),
		Hall:          NewHallRepository(db, log),
		Seat:          NewSeatRepository(db, log),
		Function:      NewFunctionRepository(db, log),
		Booking:       NewBookingRepository(db, log),
		Ticket:        NewTicketRepository(db, log),
		Combo:         NewComboRepository(db, log),
		PaymentMethod: NewPaymentMethodRepository(db, log),
		Payment:       NewPaymentRepository(db, log),
		Notification:  NewNotificationRepository(db, log),
	}
}
