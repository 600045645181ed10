package notif

import (
	"context"
	"fmt"
	"testing"
	"time"

	"alumnihub/internal/common"
	"alumnihub/internal/dbmysql"
	"alumnihub/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *dbmysql.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ByID(ctx context.Context, id string) (*dbmysql.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ByUserID(ctx context.Context, userID uint64, limit, offset int) ([]*dbmysql.Notification, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*dbmysql.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id string, userID uint64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id string, userID uint64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) GetOrCreate(ctx context.Context, userID uint64) (*dbmysql.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.NotificationPreference), args.Error(1)
}

func (m *MockPreferenceRepository) Update(ctx context.Context, pref *dbmysql.NotificationPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

func (m *MockPreferenceRepository) SetPushToken(ctx context.Context, userID uint64, token, platform string) error {
	args := m.Called(ctx, userID, token, platform)
	return args.Error(0)
}

func (m *MockPreferenceRepository) ClearPushToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) ByID(ctx context.Context, id uint64) (*dbmysql.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Enqueue(ctx context.Context, topic, jobType string, payload interface{}) error {
	args := m.Called(ctx, topic, jobType, payload)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueIn(ctx context.Context, topic, jobType string, payload interface{}, delay time.Duration) error {
	args := m.Called(ctx, topic, jobType, payload, delay)
	return args.Error(0)
}

type MockRealtimePusher struct {
	mock.Mock
}

func (m *MockRealtimePusher) PushToUser(userID uint64, event string, data interface{}) {
	m.Called(userID, event, data)
}

func defaultPrefs(userID uint64) *dbmysql.NotificationPreference {
	return &dbmysql.NotificationPreference{
		UserID:          userID,
		EmailEnabled:    true,
		PushEnabled:     true,
		InAppEnabled:    true,
		TypePreferences: dbmysql.DefaultTypePreferences(),
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "08:00",
	}
}

func newTestService() (*MockNotificationRepository, *MockPreferenceRepository, *MockUserRepository, *MockJobQueue, *Service) {
	repo := new(MockNotificationRepository)
	prefs := new(MockPreferenceRepository)
	users := new(MockUserRepository)
	jobs := new(MockJobQueue)
	svc := NewService(repo, prefs, users, jobs)
	return repo, prefs, users, jobs, svc
}

func baseEvent(userID uint64) common.NotificationEvent {
	return common.NotificationEvent{
		UserID:  userID,
		Type:    common.NewMessageType,
		Title:   "New message",
		Message: "hello there",
	}
}

func TestCreate_PersistsAndEnqueuesChannels(t *testing.T) {
	repo, prefs, users, jobs, svc := newTestService()

	pref := defaultPrefs(1)
	pref.PushToken = "device-token"
	prefs.On("GetOrCreate", mock.Anything, uint64(1)).Return(pref, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*dbmysql.Notification")).Return(nil)
	users.On("ByID", mock.Anything, uint64(1)).Return(&dbmysql.User{ID: 1, Email: "a@example.com"}, nil)
	jobs.On("EnqueueIn", mock.Anything, queue.TopicEmailDelivery, queue.JobTypeEmail,
		mock.AnythingOfType("queue.EmailJobPayload"), time.Duration(0)).Return(nil)
	jobs.On("EnqueueIn", mock.Anything, queue.TopicNotificationDelivery, queue.JobTypePush,
		mock.AnythingOfType("queue.PushJobPayload"), time.Duration(0)).Return(nil)

	n, err := svc.Create(context.Background(), baseEvent(1))

	assert.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, string(common.ChannelInApp), n.Channel)
	assert.Equal(t, string(common.PriorityNormal), n.Priority)
	repo.AssertExpectations(t)
	jobs.AssertExpectations(t)
}

func TestCreate_SuppressedByTypePreference(t *testing.T) {
	repo, prefs, _, jobs, svc := newTestService()

	pref := defaultPrefs(1)
	pref.TypePreferences[common.NewMessageType] = false
	prefs.On("GetOrCreate", mock.Anything, uint64(1)).Return(pref, nil)

	n, err := svc.Create(context.Background(), baseEvent(1))

	assert.NoError(t, err)
	assert.Nil(t, n)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	jobs.AssertNotCalled(t, "EnqueueIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_NoEmailForLowPriority(t *testing.T) {
	repo, prefs, _, jobs, svc := newTestService()

	pref := defaultPrefs(1)
	prefs.On("GetOrCreate", mock.Anything, uint64(1)).Return(pref, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	event := baseEvent(1)
	event.Priority = common.PriorityLow

	_, err := svc.Create(context.Background(), event)

	assert.NoError(t, err)
	// no push token either, so nothing reaches the queue
	jobs.AssertNotCalled(t, "EnqueueIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_NoPushWithoutToken(t *testing.T) {
	repo, prefs, users, jobs, svc := newTestService()

	pref := defaultPrefs(1)
	prefs.On("GetOrCreate", mock.Anything, uint64(1)).Return(pref, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("ByID", mock.Anything, uint64(1)).Return(&dbmysql.User{ID: 1, Email: "a@example.com"}, nil)
	jobs.On("EnqueueIn", mock.Anything, queue.TopicEmailDelivery, queue.JobTypeEmail,
		mock.Anything, time.Duration(0)).Return(nil)

	_, err := svc.Create(context.Background(), baseEvent(1))

	assert.NoError(t, err)
	jobs.AssertNotCalled(t, "EnqueueIn", mock.Anything, queue.TopicNotificationDelivery,
		mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_QuietHoursDeferDelivery(t *testing.T) {
	repo, prefs, users, jobs, svc := newTestService()

	pref := defaultPrefs(1)
	pref.QuietHoursEnabled = true
	prefs.On("GetOrCreate", mock.Anything, uint64(1)).Return(pref, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("ByID", mock.Anything, uint64(1)).Return(&dbmysql.User{ID: 1, Email: "a@example.com"}, nil)

	// 23:00, one hour into the 22:00-08:00 window, nine hours from its end
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	}

	jobs.On("EnqueueIn", mock.Anything, queue.TopicEmailDelivery, queue.JobTypeEmail,
		mock.Anything, 9*time.Hour).Return(nil)

	_, err := svc.Create(context.Background(), baseEvent(1))

	assert.NoError(t, err)
	jobs.AssertExpectations(t)
}

func TestCreate_UrgentBypassesQuietHours(t *testing.T) {
	repo, prefs, users, jobs, svc := newTestService()

	pref := defaultPrefs(1)
	pref.QuietHoursEnabled = true
	prefs.On("GetOrCreate", mock.Anything, uint64(1)).Return(pref, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("ByID", mock.Anything, uint64(1)).Return(&dbmysql.User{ID: 1, Email: "a@example.com"}, nil)

	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	}

	jobs.On("EnqueueIn", mock.Anything, queue.TopicEmailDelivery, queue.JobTypeEmail,
		mock.Anything, time.Duration(0)).Return(nil)

	event := baseEvent(1)
	event.Priority = common.PriorityUrgent

	_, err := svc.Create(context.Background(), event)

	assert.NoError(t, err)
	jobs.AssertExpectations(t)
}

func TestCreate_PushesRealtimeFrames(t *testing.T) {
	repo, prefs, _, _, svc := newTestService()
	pusher := new(MockRealtimePusher)
	svc.SetRealtimePusher(pusher)

	pref := defaultPrefs(1)
	pref.EmailEnabled = false
	pref.PushEnabled = false
	prefs.On("GetOrCreate", mock.Anything, uint64(1)).Return(pref, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("UnreadCount", mock.Anything, uint64(1)).Return(int64(4), nil)
	pusher.On("PushToUser", uint64(1), "notification", mock.Anything).Return()
	pusher.On("PushToUser", uint64(1), "unreadCount", map[string]int64{"count": 4}).Return()

	_, err := svc.Create(context.Background(), baseEvent(1))

	assert.NoError(t, err)
	pusher.AssertExpectations(t)
}

func TestCreateBulk_SkipsTypeGate(t *testing.T) {
	repo, prefs, _, _, svc := newTestService()

	// user 2 opted out of announcements; the broadcast still reaches them
	optedOut := defaultPrefs(2)
	optedOut.TypePreferences[common.SystemAnnouncementType] = false
	optedOut.EmailEnabled = false
	optedOut.PushEnabled = false

	normal := defaultPrefs(3)
	normal.EmailEnabled = false
	normal.PushEnabled = false

	prefs.On("GetOrCreate", mock.Anything, uint64(2)).Return(optedOut, nil)
	prefs.On("GetOrCreate", mock.Anything, uint64(3)).Return(normal, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Times(2)

	event := common.NotificationEvent{
		Type:    common.SystemAnnouncementType,
		Title:   "Maintenance window",
		Message: "Saturday 02:00 UTC",
	}

	created, err := svc.CreateBulk(context.Background(), []uint64{2, 3}, event)

	assert.NoError(t, err)
	assert.Equal(t, 2, created)
	repo.AssertExpectations(t)
}

func TestCreateBulk_ContinuesPastFailures(t *testing.T) {
	repo, prefs, _, _, svc := newTestService()

	prefs.On("GetOrCreate", mock.Anything, uint64(2)).Return(nil, assert.AnError)

	broken := defaultPrefs(3)
	broken.EmailEnabled = false
	broken.PushEnabled = false
	prefs.On("GetOrCreate", mock.Anything, uint64(3)).Return(broken, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	event := common.NotificationEvent{Type: common.SystemAnnouncementType, Title: "t", Message: "m"}

	created, err := svc.CreateBulk(context.Background(), []uint64{2, 3}, event)

	assert.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestMarkRead_PushesUpdatedCount(t *testing.T) {
	repo, _, _, _, svc := newTestService()
	pusher := new(MockRealtimePusher)
	svc.SetRealtimePusher(pusher)

	repo.On("MarkAsRead", mock.Anything, "abc", uint64(1)).Return(nil)
	repo.On("UnreadCount", mock.Anything, uint64(1)).Return(int64(2), nil)
	pusher.On("PushToUser", uint64(1), "unreadCount", map[string]int64{"count": 2}).Return()

	err := svc.MarkRead(context.Background(), "abc", 1)

	assert.NoError(t, err)
	pusher.AssertExpectations(t)
}

func TestMarkRead_NotFound(t *testing.T) {
	repo, _, _, _, svc := newTestService()

	repo.On("MarkAsRead", mock.Anything, "missing", uint64(1)).
		Return(fmt.Errorf("notification missing: %w", gorm.ErrRecordNotFound))

	err := svc.MarkRead(context.Background(), "missing", 1)

	assert.Error(t, err)
	assert.Equal(t, common.CodeNotFound, common.CodeOf(err))
}

func TestMarkRead_StorageFailureIsInternal(t *testing.T) {
	repo, _, _, _, svc := newTestService()
	pusher := new(MockRealtimePusher)
	svc.SetRealtimePusher(pusher)

	repo.On("MarkAsRead", mock.Anything, "abc", uint64(1)).Return(assert.AnError)

	err := svc.MarkRead(context.Background(), "abc", 1)

	// a transient outage must not read as a missing notification
	assert.Error(t, err)
	assert.Equal(t, common.CodeInternal, common.CodeOf(err))
	pusher.AssertNotCalled(t, "PushToUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterPushToken_RequiresToken(t *testing.T) {
	_, prefs, _, _, svc := newTestService()

	err := svc.RegisterPushToken(context.Background(), 1, "", "android")

	assert.Error(t, err)
	assert.Equal(t, common.CodeInvalidOperation, common.CodeOf(err))
	prefs.AssertNotCalled(t, "SetPushToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterPushToken_Success(t *testing.T) {
	_, prefs, _, _, svc := newTestService()

	prefs.On("SetPushToken", mock.Anything, uint64(1), "tok", "ios").Return(nil)

	err := svc.RegisterPushToken(context.Background(), 1, "tok", "ios")

	assert.NoError(t, err)
	prefs.AssertExpectations(t)
}
