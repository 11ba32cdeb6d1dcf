// Package storage provides the durable backends shared by every handler:
// the connection registry, the report store and the account store. The
// production backend is Redis; in-memory equivalents exist for tests and
// redis-less development runs.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utec-cloud/incident-hub/internal/auth"
	"github.com/utec-cloud/incident-hub/internal/errs"
	"github.com/utec-cloud/incident-hub/internal/realtime"
	"github.com/utec-cloud/incident-hub/internal/reports"
)

const (
	keyConnections  = "ih:connections"
	reportKeyPrefix = "ih:reportes:"
	accountPrefix   = "ih:cuentas:"
)

// Open connects to Redis and verifies the server answers.
func Open(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// RedisRegistry keeps connection membership in a single hash so that every
// process sees the same point-in-time snapshot.
type RedisRegistry struct {
	client *redis.Client
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Register(ctx context.Context, conn realtime.Connection) error {
	data, err := json.Marshal(conn)
	if err != nil {
		return fmt.Errorf("registry: encode connection: %w", err)
	}
	if err := r.client.HSet(ctx, keyConnections, conn.ID, data).Err(); err != nil {
		return fmt.Errorf("registry: register %s: %w", conn.ID, err)
	}
	return nil
}

func (r *RedisRegistry) Unregister(ctx context.Context, connectionID string) error {
	if err := r.client.HDel(ctx, keyConnections, connectionID).Err(); err != nil {
		return fmt.Errorf("registry: unregister %s: %w", connectionID, err)
	}
	return nil
}

func (r *RedisRegistry) Get(ctx context.Context, connectionID string) (realtime.Connection, error) {
	data, err := r.client.HGet(ctx, keyConnections, connectionID).Result()
	if err == redis.Nil {
		return realtime.Connection{}, realtime.ErrConnectionNotFound
	}
	if err != nil {
		return realtime.Connection{}, fmt.Errorf("registry: get %s: %w", connectionID, err)
	}
	var conn realtime.Connection
	if err := json.Unmarshal([]byte(data), &conn); err != nil {
		return realtime.Connection{}, fmt.Errorf("registry: decode %s: %w", connectionID, err)
	}
	return conn, nil
}

func (r *RedisRegistry) ListAll(ctx context.Context) ([]realtime.Connection, error) {
	entries, err := r.client.HGetAll(ctx, keyConnections).Result()
	if err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}
	conns := make([]realtime.Connection, 0, len(entries))
	for id, data := range entries {
		var conn realtime.Connection
		if err := json.Unmarshal([]byte(data), &conn); err != nil {
			// A corrupt entry is unreadable forever; drop it.
			_ = r.client.HDel(ctx, keyConnections, id).Err()
			continue
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

// RedisReportStore keeps one hash per tenant, keyed by report uuid.
type RedisReportStore struct {
	client *redis.Client
}

func NewRedisReportStore(client *redis.Client) *RedisReportStore {
	return &RedisReportStore{client: client}
}

func reportKey(tenantID string) string { return reportKeyPrefix + tenantID }

func (s *RedisReportStore) Put(ctx context.Context, r reports.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("reports: encode %s: %w", r.UUID, err)
	}
	if err := s.client.HSet(ctx, reportKey(r.TenantID), r.UUID, data).Err(); err != nil {
		return fmt.Errorf("reports: put %s/%s: %w", r.TenantID, r.UUID, err)
	}
	return nil
}

func (s *RedisReportStore) Get(ctx context.Context, tenantID, id string) (reports.Report, error) {
	data, err := s.client.HGet(ctx, reportKey(tenantID), id).Result()
	if err == redis.Nil {
		return reports.Report{}, errs.NotFound("el reporte no existe o no pertenece al tenant")
	}
	if err != nil {
		return reports.Report{}, fmt.Errorf("reports: get %s/%s: %w", tenantID, id, err)
	}
	var r reports.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return reports.Report{}, fmt.Errorf("reports: decode %s/%s: %w", tenantID, id, err)
	}
	return r, nil
}

func (s *RedisReportStore) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.client.HDel(ctx, reportKey(tenantID), id).Err(); err != nil {
		return fmt.Errorf("reports: delete %s/%s: %w", tenantID, id, err)
	}
	return nil
}

func (s *RedisReportStore) ListByTenant(ctx context.Context, tenantID string) ([]reports.Report, error) {
	entries, err := s.client.HGetAll(ctx, reportKey(tenantID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reports: list %s: %w", tenantID, err)
	}
	return decodeReports(entries)
}

// ScanAll walks every tenant hash. The listing is unbounded, like the table
// scan it replaces.
func (s *RedisReportStore) ScanAll(ctx context.Context) ([]reports.Report, error) {
	var all []reports.Report
	iter := s.client.Scan(ctx, 0, reportKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		entries, err := s.client.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("reports: scan %s: %w", iter.Val(), err)
		}
		decoded, err := decodeReports(entries)
		if err != nil {
			return nil, err
		}
		all = append(all, decoded...)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("reports: scan: %w", err)
	}
	if all == nil {
		all = []reports.Report{}
	}
	return all, nil
}

func decodeReports(entries map[string]string) ([]reports.Report, error) {
	out := make([]reports.Report, 0, len(entries))
	for id, data := range entries {
		var r reports.Report
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("reports: decode %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// RedisAccountStore keeps one hash per account kind, keyed by email.
type RedisAccountStore struct {
	client *redis.Client
}

func NewRedisAccountStore(client *redis.Client) *RedisAccountStore {
	return &RedisAccountStore{client: client}
}

func (s *RedisAccountStore) Put(ctx context.Context, kind string, acc auth.Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("accounts: encode %s: %w", acc.Email, err)
	}
	if err := s.client.HSet(ctx, accountPrefix+kind, acc.Email, data).Err(); err != nil {
		return fmt.Errorf("accounts: put %s/%s: %w", kind, acc.Email, err)
	}
	return nil
}

func (s *RedisAccountStore) Get(ctx context.Context, kind, email string) (auth.Account, error) {
	data, err := s.client.HGet(ctx, accountPrefix+kind, email).Result()
	if err == redis.Nil {
		return auth.Account{}, errs.NotFound("cuenta no encontrada")
	}
	if err != nil {
		return auth.Account{}, fmt.Errorf("accounts: get %s/%s: %w", kind, email, err)
	}
	var acc auth.Account
	if err := json.Unmarshal([]byte(data), &acc); err != nil {
		return auth.Account{}, fmt.Errorf("accounts: decode %s/%s: %w", kind, email, err)
	}
	return acc, nil
}
