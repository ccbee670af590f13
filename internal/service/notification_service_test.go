package service

import (
	"context"
	"testing"

	"github.com/school-finance-ledger/internal/domain/notification"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_CreateNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts pending row and publishes dispatch request", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockProducer := new(MockPublisher)
		svc := NewNotificationService(mockRepo, mockProducer, newTestLogger())

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*notification.WhatsappNotification")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*notification.WhatsappNotification).ID = 11
			}).Return(nil).Once()
		mockProducer.On("Publish", mock.Anything, "11", mock.MatchedBy(func(v interface{}) bool {
			req, ok := v.(notification.DispatchRequest)
			return ok && req.NotificationID == 11 && req.Phone == "+628123456789" &&
				req.Type == notification.TypeAnnouncement
		})).Return(nil).Once()

		n, err := svc.CreateNotification(ctx, "+628123456789", "Libur semester dimulai besok", notification.TypeAnnouncement)

		require.NoError(t, err)
		assert.Equal(t, int64(11), n.ID)
		assert.Equal(t, notification.StatusPending, n.Status)
		assert.Nil(t, n.SentAt)
		mockRepo.AssertExpectations(t)
		mockProducer.AssertExpectations(t)
	})

	t.Run("publish failure leaves the row pending", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockProducer := new(MockPublisher)
		svc := NewNotificationService(mockRepo, mockProducer, newTestLogger())

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*notification.WhatsappNotification")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*notification.WhatsappNotification).ID = 12
			}).Return(nil).Once()
		mockProducer.On("Publish", mock.Anything, "12", mock.Anything).Return(assert.AnError).Once()

		n, err := svc.CreateNotification(ctx, "+628123456789", "msg", notification.TypeBillReminder)

		require.NoError(t, err)
		assert.Equal(t, notification.StatusPending, n.Status)
		mockRepo.AssertExpectations(t)
		mockProducer.AssertExpectations(t)
	})

	t.Run("invalid type is rejected", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockProducer := new(MockPublisher)
		svc := NewNotificationService(mockRepo, mockProducer, newTestLogger())

		n, err := svc.CreateNotification(ctx, "+628123456789", "msg", notification.Type("SMS"))

		assert.Nil(t, n)
		assert.ErrorContains(t, err, "invalid notification type")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty phone is rejected", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockProducer := new(MockPublisher)
		svc := NewNotificationService(mockRepo, mockProducer, newTestLogger())

		n, err := svc.CreateNotification(ctx, "", "msg", notification.TypeAnnouncement)

		assert.Nil(t, n)
		assert.ErrorContains(t, err, "phone cannot be empty")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockProducer := new(MockPublisher)
		svc := NewNotificationService(mockRepo, mockProducer, newTestLogger())

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		n, err := svc.CreateNotification(ctx, "+628123456789", "msg", notification.TypeAnnouncement)

		assert.Nil(t, n)
		assert.ErrorIs(t, err, assert.AnError)
		mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}

func TestNotificationService_SendPaymentConfirmation(t *testing.T) {
	ctx := context.Background()
	amount := decimal.NewFromInt(150000)

	t.Run("prefers the parent phone and formats the confirmation", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockProducer := new(MockPublisher)
		svc := NewNotificationService(mockRepo, mockProducer, newTestLogger())

		parentPhone := "+628111"
		studentPhone := "+628222"
		st := &student.Student{ID: 42, NIS: "12345", Name: "Budi Santoso", Phone: &studentPhone, ParentPhone: &parentPhone}

		wantMessage := "Pembayaran sebesar Rp 150000.00 untuk Budi Santoso (NIS 12345) telah kami terima. Terima kasih."
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *notification.WhatsappNotification) bool {
			return n.Phone == parentPhone && n.Message == wantMessage &&
				n.Type == notification.TypePaymentConfirmation
		})).Return(nil).Once()
		mockProducer.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		err := svc.SendPaymentConfirmation(ctx, st, amount)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockProducer.AssertExpectations(t)
	})

	t.Run("falls back to the student phone", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockProducer := new(MockPublisher)
		svc := NewNotificationService(mockRepo, mockProducer, newTestLogger())

		studentPhone := "+628222"
		st := &student.Student{ID: 42, NIS: "12345", Name: "Budi Santoso", Phone: &studentPhone}

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *notification.WhatsappNotification) bool {
			return n.Phone == studentPhone
		})).Return(nil).Once()
		mockProducer.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		err := svc.SendPaymentConfirmation(ctx, st, amount)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no phone on file is a no-op", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockProducer := new(MockPublisher)
		svc := NewNotificationService(mockRepo, mockProducer, newTestLogger())

		empty := ""
		st := &student.Student{ID: 42, NIS: "12345", Name: "Budi Santoso", ParentPhone: &empty}

		err := svc.SendPaymentConfirmation(ctx, st, amount)

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}
