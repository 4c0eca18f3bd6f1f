package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedNotification(f *fixture, userID uuid.UUID, title string, at time.Time) *entity.Notification {
	n := &entity.Notification{
		BaseSimple: entity.NewBaseSimple(at),
		UserID:     userID,
		Title:      title,
		Message:    title,
		Type:       entity.NotificationBooking,
		Status:     entity.NotificationUnread,
	}
	f.store.data.notifications[n.ID] = copyOf(n)
	return n
}

func TestNotificationService(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.repo.Notification, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	first := seedNotification(f, userID, "Ticket A1 confirmed", fixtureNow)
	second := seedNotification(f, userID, "Ticket A2 confirmed", fixtureNow.Add(time.Minute))
	seedNotification(f, userID, "Ticket A3 confirmed", fixtureNow.Add(2*time.Minute))
	foreign := seedNotification(f, uuid.New(), "Not yours", fixtureNow)

	require.NoError(t, svc.MarkRead(ctx, userID, first.ID))
	assert.ErrorIs(t, svc.MarkRead(ctx, userID, foreign.ID), ErrNotificationNotFound)

	unread, err := svc.ListUnread(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	archive := func(ids ...uuid.UUID) (*response.ArchiveNotificationsResponse, error) {
		req := &request.ArchiveNotificationsRequest{}
		for _, id := range ids {
			req.NotificationIDs = append(req.NotificationIDs, id.String())
		}
		return svc.Archive(ctx, userID, req)
	}

	archived, err := archive(second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), archived.Archived)
	_, err = archive(foreign.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.ErrorIs(t, svc.MarkRead(ctx, userID, second.ID), ErrNotificationNotFound)

	page := request.PaginatedRequest{Page: 1, PerPage: 10}
	list, err := svc.List(ctx, userID, &request.NotificationListRequest{PaginatedRequest: page})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)

	withArchived, err := svc.List(ctx, userID, &request.NotificationListRequest{PaginatedRequest: page, IncludeArchived: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), withArchived.Pagination.Total)

	marked, err := svc.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked.Updated)

	unread, err = svc.ListUnread(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationService_ArchiveBatch(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.repo.Notification, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	first := seedNotification(f, userID, "Ticket A1 confirmed", fixtureNow)
	second := seedNotification(f, userID, "Ticket A2 confirmed", fixtureNow.Add(time.Minute))
	kept := seedNotification(f, userID, "Ticket A3 confirmed", fixtureNow.Add(2*time.Minute))
	foreign := seedNotification(f, uuid.New(), "Not yours", fixtureNow)

	resp, err := svc.Archive(ctx, userID, &request.ArchiveNotificationsRequest{
		NotificationIDs: []string{first.ID.String(), second.ID.String(), foreign.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Archived)
	assert.Equal(t, entity.NotificationUnread, f.store.data.notifications[foreign.ID].Status)

	unread, err := svc.ListUnread(ctx, userID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, kept.ID.String(), unread[0].ID)

	_, err = svc.Archive(ctx, userID, &request.ArchiveNotificationsRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Archive(ctx, userID, &request.ArchiveNotificationsRequest{NotificationIDs: []string{"nope"}})
	assert.ErrorIs(t, err, ErrValidation)
}
