package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visittrack/api/models"
	"visittrack/api/testsupport"
)

func TestInsertChatLogDefaultsToAnonymous(t *testing.T) {
	s := NewChatStore(testsupport.NewDB(t))
	ctx := context.Background()

	_, err := s.InsertChatLog(ctx, "", models.RoleUser, "Bonjour")
	require.NoError(t, err)

	entries, err := s.ListChatLogs(ctx, 10, models.AnonymousSession)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RoleUser, entries[0].Role)
	assert.Equal(t, "Bonjour", entries[0].Message)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestListChatLogsNewestFirst(t *testing.T) {
	s := NewChatStore(testsupport.NewDB(t))
	ctx := context.Background()

	_, err := s.InsertChatLog(ctx, "s1", models.RoleUser, "question")
	require.NoError(t, err)
	_, err = s.InsertChatLog(ctx, "s1", models.RoleAssistant, "answer")
	require.NoError(t, err)
	_, err = s.InsertChatLog(ctx, "s2", models.RoleUser, "other")
	require.NoError(t, err)

	entries, err := s.ListChatLogs(ctx, 10, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "answer", entries[0].Message)
	assert.Equal(t, "question", entries[1].Message)

	all, err := s.ListChatLogs(ctx, 2, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
