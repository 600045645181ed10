package connection

import (
	"context"
	"testing"

	"alumnihub/internal/common"
	"alumnihub/internal/dbmysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, conn *dbmysql.Connection) error {
	args := m.Called(ctx, conn)
	if args.Error(0) == nil {
		conn.ID = 42
	}
	return args.Error(0)
}

func (m *MockRepository) ByID(ctx context.Context, id uint64) (*dbmysql.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Connection), args.Error(1)
}

func (m *MockRepository) BetweenUsers(ctx context.Context, userA, userB uint64) (*dbmysql.Connection, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Connection), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, conn *dbmysql.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockRepository) ListAccepted(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*dbmysql.Connection), args.Error(1)
}

func (m *MockRepository) ListPendingIncoming(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*dbmysql.Connection), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ConnectionRequested(ctx context.Context, requesterID, receiverID, connectionID uint64) error {
	args := m.Called(ctx, requesterID, receiverID, connectionID)
	return args.Error(0)
}

func (m *MockNotifier) ConnectionAccepted(ctx context.Context, accepterID, requesterID, connectionID uint64) error {
	args := m.Called(ctx, accepterID, requesterID, connectionID)
	return args.Error(0)
}

func TestSendRequest_Success(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	svc := NewService(repo, notifier)

	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(nil, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*dbmysql.Connection")).Return(nil)
	notifier.On("ConnectionRequested", mock.Anything, uint64(1), uint64(2), uint64(42)).Return(nil)

	conn, err := svc.SendRequest(context.Background(), 1, 2, "hey, we met at the reunion")

	assert.NoError(t, err)
	assert.Equal(t, string(StatusPending), conn.Status)
	assert.Equal(t, uint64(1), conn.RequesterID)
	assert.Equal(t, uint64(2), conn.ReceiverID)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSendRequest_ToSelf(t *testing.T) {
	svc := NewService(new(MockRepository), new(MockNotifier))

	_, err := svc.SendRequest(context.Background(), 7, 7, "")

	assert.Error(t, err)
	assert.Equal(t, common.CodeInvalidOperation, common.CodeOf(err))
}

func TestSendRequest_DuplicateEitherDirection(t *testing.T) {
	existing := &dbmysql.Connection{ID: 9, RequesterID: 2, ReceiverID: 1, Status: string(StatusPending)}

	// the earlier request went the other way; a new one must still conflict
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	svc := NewService(repo, notifier)

	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(existing, nil)

	_, err := svc.SendRequest(context.Background(), 1, 2, "")

	assert.Error(t, err)
	assert.Equal(t, common.CodeConflict, common.CodeOf(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "ConnectionRequested", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendRequest_NotificationFailureDoesNotFail(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	svc := NewService(repo, notifier)

	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(nil, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("ConnectionRequested", mock.Anything, uint64(1), uint64(2), uint64(42)).
		Return(assert.AnError)

	conn, err := svc.SendRequest(context.Background(), 1, 2, "")

	assert.NoError(t, err)
	assert.NotNil(t, conn)
}

func TestRespond_Accept(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	svc := NewService(repo, notifier)

	pending := &dbmysql.Connection{ID: 5, RequesterID: 1, ReceiverID: 2, Status: string(StatusPending)}
	repo.On("ByID", mock.Anything, uint64(5)).Return(pending, nil)
	repo.On("Update", mock.Anything, pending).Return(nil)
	notifier.On("ConnectionAccepted", mock.Anything, uint64(2), uint64(1), uint64(5)).Return(nil)

	conn, err := svc.Respond(context.Background(), 5, 2, true)

	assert.NoError(t, err)
	assert.Equal(t, string(StatusAccepted), conn.Status)
	assert.NotNil(t, conn.RespondedAt)
	notifier.AssertExpectations(t)
}

func TestRespond_RejectDoesNotNotify(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	svc := NewService(repo, notifier)

	pending := &dbmysql.Connection{ID: 5, RequesterID: 1, ReceiverID: 2, Status: string(StatusPending)}
	repo.On("ByID", mock.Anything, uint64(5)).Return(pending, nil)
	repo.On("Update", mock.Anything, pending).Return(nil)

	conn, err := svc.Respond(context.Background(), 5, 2, false)

	assert.NoError(t, err)
	assert.Equal(t, string(StatusRejected), conn.Status)
	notifier.AssertNotCalled(t, "ConnectionAccepted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRespond_OnlyReceiverMayRespond(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockNotifier))

	pending := &dbmysql.Connection{ID: 5, RequesterID: 1, ReceiverID: 2, Status: string(StatusPending)}
	repo.On("ByID", mock.Anything, uint64(5)).Return(pending, nil)

	// the requester trying to accept their own request looks like not-found
	_, err := svc.Respond(context.Background(), 5, 1, true)

	assert.Error(t, err)
	assert.Equal(t, common.CodeNotFound, common.CodeOf(err))
}

func TestRespond_ChangeMindAfterRejecting(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	svc := NewService(repo, notifier)

	rejected := &dbmysql.Connection{ID: 5, RequesterID: 1, ReceiverID: 2, Status: string(StatusRejected)}
	repo.On("ByID", mock.Anything, uint64(5)).Return(rejected, nil)
	repo.On("Update", mock.Anything, rejected).Return(nil)
	notifier.On("ConnectionAccepted", mock.Anything, uint64(2), uint64(1), uint64(5)).Return(nil)

	conn, err := svc.Respond(context.Background(), 5, 2, true)

	assert.NoError(t, err)
	assert.Equal(t, string(StatusAccepted), conn.Status)
}

func TestRespond_BlockedIsFinal(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockNotifier))

	blocked := &dbmysql.Connection{ID: 5, RequesterID: 1, ReceiverID: 2, Status: string(StatusBlocked)}
	repo.On("ByID", mock.Anything, uint64(5)).Return(blocked, nil)

	_, err := svc.Respond(context.Background(), 5, 2, true)

	assert.Error(t, err)
	assert.Equal(t, common.CodeConflict, common.CodeOf(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGetStatus_Perspective(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockNotifier))

	conn := &dbmysql.Connection{ID: 11, RequesterID: 1, ReceiverID: 2, Status: string(StatusPending)}
	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(conn, nil)
	repo.On("BetweenUsers", mock.Anything, uint64(2), uint64(1)).Return(conn, nil)

	mine, err := svc.GetStatus(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, mine.Status)
	assert.True(t, mine.InitiatedByMe)

	theirs, err := svc.GetStatus(context.Background(), 2, 1)
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, theirs.Status)
	assert.False(t, theirs.InitiatedByMe)
}

func TestGetStatus_NoneWhenUnconnected(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockNotifier))

	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(nil, nil)

	view, err := svc.GetStatus(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, StatusNone, view.Status)
	assert.Nil(t, view.ConnectionID)
}

func TestBlock_CreatesRowWhenNoneExists(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockNotifier))

	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(nil, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*dbmysql.Connection")).Return(nil)

	conn, err := svc.Block(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, string(StatusBlocked), conn.Status)
}

func TestBlock_OverwritesAccepted(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockNotifier))

	accepted := &dbmysql.Connection{ID: 3, RequesterID: 2, ReceiverID: 1, Status: string(StatusAccepted)}
	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(accepted, nil)
	repo.On("Update", mock.Anything, accepted).Return(nil)

	conn, err := svc.Block(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, string(StatusBlocked), conn.Status)
}

func TestBlock_Idempotent(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockNotifier))

	blocked := &dbmysql.Connection{ID: 3, RequesterID: 1, ReceiverID: 2, Status: string(StatusBlocked)}
	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(blocked, nil)

	conn, err := svc.Block(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, string(StatusBlocked), conn.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestIsBlocked(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockNotifier))

	blocked := &dbmysql.Connection{ID: 3, RequesterID: 1, ReceiverID: 2, Status: string(StatusBlocked)}
	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(2)).Return(blocked, nil)
	repo.On("BetweenUsers", mock.Anything, uint64(1), uint64(3)).Return(nil, nil)

	got, err := svc.IsBlocked(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = svc.IsBlocked(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.False(t, got)
}
