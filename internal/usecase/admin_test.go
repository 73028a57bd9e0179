package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"companion-backend/internal/domain"
)

type mockResources struct {
	chats    int64
	letters  int64
	memories int64
	daily    int64
	visitor  domain.Visitor
	convs    []domain.Conversation
	letterns []domain.Letter
	secret   *domain.Secret
	deleted  int64

	countErr   error
	visitorErr error
	deleteErr  error

	lastScope  *domain.Scope
	visitedAt  time.Time
	visitError error
}

func (m *mockResources) CountConversations(_ context.Context, scope domain.Scope) (int64, error) {
	m.lastScope = &scope
	return m.chats, m.countErr
}

func (m *mockResources) CountLetters(_ context.Context, _ domain.Scope) (int64, error) {
	return m.letters, nil
}

func (m *mockResources) CountMemories(_ context.Context, _ domain.Scope) (int64, error) {
	return m.memories, nil
}

func (m *mockResources) CountDailyMessages(_ context.Context, _ domain.Scope) (int64, error) {
	return m.daily, nil
}

func (m *mockResources) VisitorStats(_ context.Context, _ domain.Scope) (domain.Visitor, error) {
	return m.visitor, m.visitorErr
}

func (m *mockResources) RecordVisit(_ context.Context, scope domain.Scope, at time.Time) error {
	m.lastScope = &scope
	m.visitedAt = at
	return m.visitError
}

func (m *mockResources) ListConversations(_ context.Context, scope domain.Scope) ([]domain.Conversation, error) {
	m.lastScope = &scope
	return m.convs, nil
}

func (m *mockResources) ListLetters(_ context.Context, scope domain.Scope) ([]domain.Letter, error) {
	m.lastScope = &scope
	return m.letterns, nil
}

func (m *mockResources) GetSecret(_ context.Context, scope domain.Scope) (*domain.Secret, error) {
	m.lastScope = &scope
	return m.secret, nil
}

func (m *mockResources) DeleteConversations(_ context.Context, scope domain.Scope) (int64, error) {
	m.lastScope = &scope
	return m.deleted, m.deleteErr
}

func TestNewAdminService_RequiresStore(t *testing.T) {
	_, err := NewAdminService(nil)
	require.Error(t, err)
}

func TestGetDashboard_ScopedViewIncludesLastVisit(t *testing.T) {
	last := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := &mockResources{
		chats: 3, letters: 2, memories: 5, daily: 7,
		visitor: domain.Visitor{Count: 42, LastVisit: last},
	}
	svc, err := NewAdminService(store)
	require.NoError(t, err)

	d, err := svc.GetDashboard(context.Background(), domain.CreatorScope("user-1"))
	require.NoError(t, err)
	require.Equal(t, int64(3), d.TotalChats)
	require.Equal(t, int64(2), d.TotalLetters)
	require.Equal(t, int64(5), d.TotalMemories)
	require.Equal(t, int64(7), d.TotalDailyMessages)
	require.Equal(t, int64(42), d.VisitorCount)
	require.NotNil(t, d.LastVisit)
	require.Equal(t, last, *d.LastVisit)
}

func TestGetDashboard_AdminViewHasNoLastVisit(t *testing.T) {
	store := &mockResources{
		visitor: domain.Visitor{Count: 99, LastVisit: time.Now()},
	}
	svc, err := NewAdminService(store)
	require.NoError(t, err)

	d, err := svc.GetDashboard(context.Background(), domain.AdminScope())
	require.NoError(t, err)
	require.Equal(t, int64(99), d.VisitorCount)
	require.Nil(t, d.LastVisit, "the global view aggregates counts but has no single last visit")
}

func TestGetDashboard_CountErrorsSurfaceAsInternal(t *testing.T) {
	store := &mockResources{countErr: errors.New("mongo down")}
	svc, err := NewAdminService(store)
	require.NoError(t, err)

	_, err = svc.GetDashboard(context.Background(), domain.AdminScope())
	expectUsecaseError(t, err, ErrorInternal, "chat_count_error")
}

func TestClearChats_ReportsDeletedCount(t *testing.T) {
	store := &mockResources{deleted: 4}
	svc, err := NewAdminService(store)
	require.NoError(t, err)

	scope := domain.CreatorScope("user-1")
	deleted, err := svc.ClearChats(context.Background(), scope)
	require.NoError(t, err)
	require.Equal(t, int64(4), deleted)
	require.Equal(t, scope, *store.lastScope, "the resolved scope must flow into the store untouched")
}

func TestClearChats_StoreError(t *testing.T) {
	store := &mockResources{deleteErr: errors.New("mongo down")}
	svc, err := NewAdminService(store)
	require.NoError(t, err)

	_, err = svc.ClearChats(context.Background(), domain.AdminScope())
	expectUsecaseError(t, err, ErrorInternal, "chat_clear_error")
}

func TestRecordVisit_PassesScopeAndTime(t *testing.T) {
	store := &mockResources{}
	svc, err := NewAdminService(store)
	require.NoError(t, err)

	require.NoError(t, svc.RecordVisit(context.Background(), domain.EntrantScope("user-2")))
	require.False(t, store.visitedAt.IsZero())
}
