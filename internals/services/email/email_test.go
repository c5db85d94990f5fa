package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomAssignmentMessage(t *testing.T) {
	msg := RoomAssignmentMessage(RoomAssignment{
		StudentName:   "Ayu",
		StudentEmail:  "ayu@example.com",
		DormName:      "North Hall",
		RoomNumber:    "B-12",
		RoomType:      "double",
		SemesterCount: 2,
		PricePerSem:   "1500",
		TotalFee:      "3000",
	})

	require.Len(t, msg.To, 1)
	assert.Equal(t, "ayu@example.com", msg.To[0].Address)
	assert.Equal(t, "Room assignment: B-12", msg.Subject)
	assert.Contains(t, msg.Text, "North Hall")
	assert.Contains(t, msg.Text, "Total fee: 3000")
}

func TestNewPicksLogMailerWithoutKey(t *testing.T) {
	_, isLog := New("", "Dormku", "no-reply@dormku.local").(*logMailer)
	assert.True(t, isLog)

	_, isSendgrid := New("SG.key", "Dormku", "no-reply@dormku.local").(*sendgridMailer)
	assert.True(t, isSendgrid)
}

func TestMemoryMailer(t *testing.T) {
	m := &MemoryMailer{}
	require.NoError(t, m.Send(context.Background(), Message{Subject: "x"}))
	assert.Equal(t, 1, m.Count())

	m.Fail = ErrMailerDown
	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrMailerDown)
	assert.Equal(t, 1, m.Count())
}

func TestLogMailerSkipsEmptyRecipients(t *testing.T) {
	assert.NoError(t, NewLogMailer("Dormku", "a@b.c").Send(context.Background(), Message{Subject: "none"}))
}
