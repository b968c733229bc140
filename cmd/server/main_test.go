package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasirinaja/frontend/internal/cache"
	"kasirinaja/frontend/internal/config"
	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/pos"
	"kasirinaja/frontend/internal/session"
	"kasirinaja/frontend/internal/store"
	"kasirinaja/frontend/internal/store/memory"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{SessionSecret: "short", APIBaseURL: "http://api.local/api"})
	if err == nil {
		t.Fatalf("expected short session secret to be rejected")
	}

	for _, base := range []string{"", "api.local/api", "ftp://api.local", "http://"} {
		err := validateSecurityConfig(config.Config{SessionSecret: strongSecret, APIBaseURL: base})
		if err == nil {
			t.Fatalf("expected API base %q to be rejected", base)
		}
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{SessionSecret: strongSecret, APIBaseURL: "https://pos.example.com/api"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}

func TestStoresDefaultToMemory(t *testing.T) {
	ctx := context.Background()
	repo, closeRepo, err := openSessionStore(ctx, config.Config{})
	require.NoError(t, err)
	assert.Nil(t, closeRepo)
	assert.IsType(t, &memory.Store{}, repo)

	qc, closeCache := openQueryCache(ctx, config.Config{})
	assert.Nil(t, closeCache)
	assert.IsType(t, &cache.Memory{}, qc)
}

func TestUnreachableRedisFallsBackToMemory(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	qc, closeCache := openQueryCache(ctx, config.Config{RedisAddr: "127.0.0.1:1"})
	assert.Nil(t, closeCache)
	assert.IsType(t, &cache.Memory{}, qc)
}

func TestPurgeSessionsDropsExpiredWorkspaces(t *testing.T) {
	repo := memory.New()
	shortLived, err := session.NewManager(strongSecret, time.Millisecond, repo)
	require.NoError(t, err)
	longLived, err := session.NewManager(strongSecret, time.Hour, repo)
	require.NoError(t, err)

	login := domain.LoginResponse{
		User:        domain.User{ID: "u1", Name: "Sari", Email: "sari@kasir.test", Role: domain.RoleCashier},
		AccessToken: "tok",
	}
	expired, _, err := shortLived.Begin(context.Background(), login)
	require.NoError(t, err)
	live, _, err := longLived.Begin(context.Background(), login)
	require.NoError(t, err)

	workspaces := pos.NewRegistry()
	require.NoError(t, workspaces.Get(expired.ID).Edit(func(c *pos.Cart) {
		c.Add(domain.Product{ID: "p1", Name: "Gula", Price: decimal.NewFromInt(15000), Stock: 3})
	}))
	kept := workspaces.Get(live.ID)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		purgeSessions(ctx, longLived, workspaces, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := repo.GetSession(context.Background(), expired.ID)
		return errors.Is(err, store.ErrNotFound) && workspaces.Len() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Same(t, kept, workspaces.Get(live.ID))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop")
	}
}

func TestClosersRunInReverseAndSkipNil(t *testing.T) {
	var order []string
	var opened closers
	opened.add(func() error { order = append(order, "store"); return nil })
	opened.add(nil)
	opened.add(func() error { order = append(order, "cache"); return errors.New("already closed") })

	opened.closeAll()
	assert.Equal(t, []string{"cache", "store"}, order)
}

func TestAppDefaultsToServe(t *testing.T) {
	app := newApp()
	require.NotNil(t, app.Action)
	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
}
