package storage

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisRepository(t *testing.T) {
	addr := os.Getenv("TASKDASH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TASKDASH_TEST_REDIS_ADDR not set")
	}
	repo, err := OpenRedis(t.Context(), RedisConfig{Addr: addr, KeyPrefix: "taskdash-test:"})
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	defer repo.Close()

	user := "redis-" + uuid.NewString()
	exerciseRepository(t, repo, user)

	raw, err := repo.rdb.Get(t.Context(), "taskdash-test:categories_"+user).Result()
	if err != nil {
		t.Fatalf("get raw key: %v", err)
	}
	if raw != `["Only"]` {
		t.Fatalf("unexpected raw value: %s", raw)
	}
	for _, name := range Keys {
		repo.rdb.Del(t.Context(), repo.key(name, user))
	}
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TASKDASH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TASKDASH_TEST_POSTGRES_DSN not set")
	}
	repo, err := OpenPostgres(t.Context(), dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer repo.Close()

	user := "pg-" + uuid.NewString()
	exerciseRepository(t, repo, user)

	var updated time.Time
	if err := repo.pool.QueryRow(t.Context(), `SELECT MAX(updated_at) FROM user_state WHERE user_key = $1`, user).Scan(&updated); err != nil {
		t.Fatalf("query updated_at: %v", err)
	}
	if updated.IsZero() {
		t.Fatal("expected updated_at to be set")
	}
	if _, err := repo.pool.Exec(t.Context(), `DELETE FROM user_state WHERE user_key LIKE $1`, user+"%"); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}
