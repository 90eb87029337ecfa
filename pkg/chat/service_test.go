package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfare/wayfare/internal/utils"
	"github.com/wayfare/wayfare/pkg/user"
)

var (
	memberCtx   = user.WithUser(context.Background(), user.User{Id: 1, Uid: "member", Username: "ana"})
	outsiderCtx = user.WithUser(context.Background(), user.User{Id: 2, Uid: "outsider", Username: "bob"})
)

type tripAccessStub struct{}

func (tripAccessStub) CanAccess(ctx context.Context, userId int, tripId string) (bool, error) {
	return tripId == "trip-9" && userId == 1, nil
}

type broadcastRecorder struct {
	payloads map[string][][]byte
}

func (r *broadcastRecorder) Broadcast(tripId string, payload []byte) {
	if r.payloads == nil {
		r.payloads = map[string][][]byte{}
	}
	r.payloads[tripId] = append(r.payloads[tripId], payload)
}

func setupService(t *testing.T) (*ServiceImpl, *broadcastRecorder) {
	repo := NewRepositoryStub()
	t.Cleanup(repo.Cleanup)
	recorder := &broadcastRecorder{}
	clock := &utils.MockClock{FixedNow: time.Date(2024, 5, 4, 18, 30, 0, 0, time.UTC)}
	return NewService(repo, tripAccessStub{}, recorder, clock), recorder
}

func TestService_PostAndHistory(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Post(memberCtx, "trip-9", "Landed, heading to the hotel")
	require.NoError(t, err)
	_, err = service.Post(memberCtx, "trip-9", "Room 404, come up")
	require.NoError(t, err)

	history, err := service.History(memberCtx, "trip-9", 0)

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Landed, heading to the hotel", history[0].Body)
	assert.Equal(t, "ana", history[0].DisplayName)
	assert.Equal(t, "2024-05-04T18:30:00Z", history[0].SentAt)
}

func TestService_PostBroadcastsToRoom(t *testing.T) {
	service, recorder := setupService(t)

	posted, err := service.Post(memberCtx, "trip-9", "Landed")
	require.NoError(t, err)

	require.Len(t, recorder.payloads["trip-9"], 1)
	var dto MessageDTO
	require.NoError(t, json.Unmarshal(recorder.payloads["trip-9"][0], &dto))
	assert.Equal(t, posted.Id, dto.Id)
	assert.Equal(t, "Landed", dto.Body)
}

func TestService_PostRequiresMembership(t *testing.T) {
	service, recorder := setupService(t)

	_, err := service.Post(outsiderCtx, "trip-9", "Hello")

	assert.ErrorIs(t, err, ErrNotMember)
	assert.Empty(t, recorder.payloads)
}

func TestService_PostRejectsEmptyBody(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Post(memberCtx, "trip-9", "")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_HistoryRequiresMembership(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.History(outsiderCtx, "trip-9", 0)

	assert.ErrorIs(t, err, ErrNotMember)
}
