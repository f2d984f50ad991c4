package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduforge/agentkit/agent"
)

// ErrStateNotFound is returned when no snapshot exists for the given agent.
var ErrStateNotFound = fmt.Errorf("agent state not found")

// RedisStore persists one hash per agent under "agent:<name>:state" so
// dashboards in other processes can read agent health directly.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore constructs a store on top of an existing Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func stateKey(agentName string) string {
	return fmt.Sprintf("agent:%s:state", agentName)
}

// Save overwrites the snapshot hash for the named agent.
func (s *RedisStore) Save(ctx context.Context, agentName string, st agent.RuntimeState) error {
	fields := map[string]interface{}{
		"status":        string(st.Status),
		"last_error":    st.LastError,
		"last_response": st.LastResponse,
		"updated_at":    st.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := s.client.HSet(ctx, stateKey(agentName), fields).Err(); err != nil {
		return fmt.Errorf("save state for %s: %w", agentName, err)
	}
	return nil
}

// Load reads the snapshot for the named agent.
func (s *RedisStore) Load(ctx context.Context, agentName string) (agent.RuntimeState, error) {
	vals, err := s.client.HGetAll(ctx, stateKey(agentName)).Result()
	if err != nil {
		return agent.RuntimeState{}, fmt.Errorf("load state for %s: %w", agentName, err)
	}
	if len(vals) == 0 {
		return agent.RuntimeState{}, fmt.Errorf("%w: %s", ErrStateNotFound, agentName)
	}

	st := agent.RuntimeState{
		Status:       agent.Status(vals["status"]),
		LastError:    vals["last_error"],
		LastResponse: vals["last_response"],
	}
	if raw := vals["updated_at"]; raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			st.UpdatedAt = ts
		}
	}
	return st, nil
}
