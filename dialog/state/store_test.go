package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Load(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	attrs := map[string]string{"fallbackCount": "1"}
	if err := store.Save(ctx, "u1", attrs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	attrs["fallbackCount"] = "mutated-after-save"

	got, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got["fallbackCount"] != "1" {
		t.Fatalf("store aliased caller map: %v", got)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreRejectsEmptyUser(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if err := store.Save(context.Background(), "   ", nil); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestUpstashStoreKey(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	got, err := store.redisKey("15550001111")
	if err != nil {
		t.Fatalf("redisKey() error = %v", err)
	}
	if got != "bookline:session:15550001111" {
		t.Fatalf("redisKey() = %q", got)
	}

	if _, err := store.redisKey("  "); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestUpstashStoreSaveSendsSetWithTTL(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":"OK"}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{
		URL:   server.URL,
		Token: "token",
	}, WithTTL(time.Hour))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if err := store.Save(context.Background(), "u1", map[string]string{"fallbackCount": "0"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(gotCommand) != 5 {
		t.Fatalf("unexpected command: %v", gotCommand)
	}
	if gotCommand[0] != "SET" || gotCommand[1] != "bookline:session:u1" {
		t.Fatalf("unexpected command head: %v", gotCommand)
	}
	if gotCommand[3] != "EX" {
		t.Fatalf("expected EX ttl, got %v", gotCommand)
	}
}

func TestUpstashStoreLoadMissing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result":null}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"})
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if _, err := store.Load(context.Background(), "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestUpstashStoreLoadRoundTrip(t *testing.T) {
	t.Parallel()

	payload := `{"fallbackCount":"3"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		encoded, _ := json.Marshal(payload)
		fmt.Fprintf(w, `{"result":%s}`, encoded)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"})
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	attrs, err := store.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if attrs["fallbackCount"] != "3" {
		t.Fatalf("unexpected attrs: %v", attrs)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	store := NewRedisStoreWithClient(client, "", time.Hour)
	ctx := context.Background()

	if _, err := store.Load(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	attrs := map[string]string{
		"rememberedSlots": `{"FullName":"Jordan Reyes"}`,
		"fallbackCount":   "0",
	}
	if err := store.Save(ctx, "u1", attrs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got["rememberedSlots"] != attrs["rememberedSlots"] {
		t.Fatalf("unexpected attrs: %v", got)
	}

	// Save replaces the whole blob, including removed keys.
	if err := store.Save(ctx, "u1", map[string]string{"fallbackCount": "1"}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	got, err = store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := got["rememberedSlots"]; ok {
		t.Fatalf("stale key survived replace: %v", got)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
