package cart

import (
	"context"
	"testing"

	"github.com/angelmondragon/spa-storefront/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testCartID = "0b6a3f7e-cart"

// flakyKV wraps an in-memory store and fails selected operations.
type flakyKV struct {
	*storage.Memory
	getErr error
	setErr error
	delErr error
	sets   int
}

func newFlakyKV() *flakyKV {
	return &flakyKV{Memory: storage.NewMemory(0)}
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	return f.Memory.Set(ctx, key, value)
}

func (f *flakyKV) Del(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	return f.Memory.Del(ctx, key)
}

type recordedMutation struct {
	op, outcome string
}

type fakeRecorder struct {
	mutations []recordedMutation
	failures  []string
}

func (r *fakeRecorder) IncMutation(op, outcome string) {
	r.mutations = append(r.mutations, recordedMutation{op: op, outcome: outcome})
}

func (r *fakeRecorder) IncStorageFailure(direction string) {
	r.failures = append(r.failures, direction)
}

func newTestStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	store, err := NewStore(kv, nil, nil)
	require.NoError(t, err)
	return store
}

func money(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, money(t, want).Equal(got), "expected %s, got %s", want, got.String())
}

func cleansingTone(t *testing.T) Product {
	return Product{ID: 1, Name: "Cleansing Tone", Price: money(t, "19.99"), Image: "/img/cleansing-tone.jpg"}
}

func hydratingMist(t *testing.T) Product {
	return Product{ID: 2, Name: "Hydrating Mist", Price: money(t, "10.00"), Image: "/img/hydrating-mist.jpg"}
}
