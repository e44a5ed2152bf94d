package kafka

import (
	"Subfapp/internal/service"
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
)

type recordingTrigger struct {
	service.ScoreTrigger
	comments []uint64
	err      map[uint64]error
}

func (r *recordingTrigger) OnCommentChanged(_ context.Context, postID uint64) error {
	r.comments = append(r.comments, postID)
	return r.err[postID]
}

func message(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Topic: "canal-comments", Value: []byte(value)}
}

func TestCommentsHandlerLogic(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    []uint64
		wantErr error
	}{
		{
			name:  "insert refreshes each post once",
			value: `{"id":1,"table":"comments","type":"INSERT","data":[{"id":"10","post_id":"7"},{"id":"11","post_id":"7"},{"id":"12","post_id":"8"}]}`,
			want:  []uint64{7, 8},
		},
		{
			name:  "soft delete refreshes",
			value: `{"id":2,"table":"comments","type":"UPDATE","data":[{"id":"10","post_id":"7","deleted_at":"2025-01-01 00:00:00"}],"old":[{"deleted_at":null}]}`,
			want:  []uint64{7},
		},
		{
			name:  "content edit ignored",
			value: `{"id":3,"table":"comments","type":"UPDATE","data":[{"id":"10","post_id":"7","content":"b"}],"old":[{"content":"a"}]}`,
		},
		{
			name:  "hard delete refreshes",
			value: `{"id":4,"table":"comments","type":"DELETE","data":[{"id":"10","post_id":"9"}]}`,
			want:  []uint64{9},
		},
		{
			name:    "other table rejected",
			value:   `{"id":5,"table":"posts","type":"INSERT","data":[{"id":"7"}]}`,
			wantErr: ErrTableMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger := &recordingTrigger{}
			h := NewCommentsHandler(trigger)

			err := h.logic(context.Background(), message(tt.value))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if len(trigger.comments) != len(tt.want) {
				t.Fatalf("refreshed = %v, want %v", trigger.comments, tt.want)
			}
			for i := range tt.want {
				if trigger.comments[i] != tt.want[i] {
					t.Errorf("refreshed = %v, want %v", trigger.comments, tt.want)
				}
			}
		})
	}
}

func TestCommentsHandlerErrors(t *testing.T) {
	boom := errors.New("boom")
	trigger := &recordingTrigger{err: map[uint64]error{7: service.ErrPostNotFound, 8: boom}}
	h := NewCommentsHandler(trigger)

	err := h.logic(context.Background(), message(`{"table":"comments","type":"INSERT","data":[{"post_id":"7"}]}`))
	if err != nil {
		t.Errorf("missing post should be skipped, got %v", err)
	}

	err = h.logic(context.Background(), message(`{"table":"comments","type":"INSERT","data":[{"post_id":"8"}]}`))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom for retry", err)
	}
}

func TestHandleWithRetry(t *testing.T) {
	calls := 0
	ok := handleWithRetry(context.Background(), message(""), func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		return ErrDrop
	})
	if ok || calls != 1 {
		t.Errorf("drop: ok=%v calls=%d", ok, calls)
	}

	calls = 0
	ok = handleWithRetry(context.Background(), message(""), func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if !ok || calls != 2 {
		t.Errorf("retry: ok=%v calls=%d", ok, calls)
	}
}

func TestStrToUint64(t *testing.T) {
	tests := []struct {
		in   interface{}
		want uint64
	}{
		{"42", 42},
		{float64(7), 7},
		{nil, 0},
		{"x", 0},
	}
	for _, tt := range tests {
		if got := StrToUint64(tt.in); got != tt.want {
			t.Errorf("StrToUint64(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
