// Deterministic tests comparing lrutable against the in-memory reference model.
// Uses seeded PRNG for reproducible operation sequences across table profiles.
//
// Failures mean: the recency chain is inconsistent, or an exact profile
// returned results that differ from the model.

package lrutable_test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/lrutable/pkg/lrutable"
	"github.com/calvinalkan/lrutable/pkg/lrutable/model"
)

// tableProfile defines a table configuration and op mix for seeded runs.
type tableProfile struct {
	name        string
	capacity    int
	keySpace    int
	hasher      lrutable.Hasher[int]
	compact     bool
	removeRatio float64

	// exact profiles must match the model on every observable result.
	// Others only check recency chain consistency.
	exact bool
}

func mod4(key int) uint64 {
	return uint64(key % 4)
}

var tableProfiles = []tableProfile{
	{name: "Compact_Clustered", capacity: 16, keySpace: 24, hasher: mod4, compact: true, removeRatio: 0.4, exact: true},
	{name: "Compact_DefaultHasher", capacity: 32, keySpace: 40, compact: true, removeRatio: 0.3, exact: true},
	{name: "Compact_Capacity1", capacity: 1, keySpace: 3, compact: true, removeRatio: 0.5, exact: true},
	{name: "Plain_NoCollisions", capacity: 64, keySpace: 64, hasher: identity, removeRatio: 0.4, exact: true},
	{name: "Plain_InsertOnly", capacity: 64, keySpace: 48, removeRatio: 0, exact: true},
	{name: "Plain_Clustered", capacity: 16, keySpace: 24, hasher: mod4, removeRatio: 0.4},
	{name: "Plain_DefaultHasher", capacity: 8, keySpace: 12, removeRatio: 0.5},
}

func Test_Table_Matches_Model_When_Seeded_Random_Ops_Applied(t *testing.T) {
	t.Parallel()

	seedsPerProfile := 20
	if testing.Short() {
		seedsPerProfile = 4
	}

	opsPerSeed := 500

	for _, profile := range tableProfiles {
		for seedIndex := range seedsPerProfile {
			seed := uint64(seedIndex + 1)

			t.Run(fmt.Sprintf("%s/seed=%d", profile.name, seed), func(t *testing.T) {
				t.Parallel()

				rng := rand.New(rand.NewPCG(seed, seed))
				runProfile(t, profile, opsPerSeed, func() (bool, int, int) {
					return rng.Float64() < profile.removeRatio, rng.IntN(profile.keySpace), rng.Int()
				})
			})
		}
	}
}

// runProfile applies steps operations produced by next to a fresh table and
// model, checking the table after each one.
func runProfile(tb testing.TB, profile tableProfile, steps int, next func() (remove bool, key, value int)) {
	tb.Helper()

	table := lrutable.NewWithOptions[int, int](profile.capacity, lrutable.Options[int]{
		Hasher:  profile.hasher,
		Compact: profile.compact,
	})
	ref := model.New[int, int]()

	for step := range steps {
		remove, key, value := next()

		if remove {
			removed := table.Remove(key)
			modelRemoved := ref.Remove(key)

			if profile.exact && removed != modelRemoved {
				tb.Fatalf("step %d: Remove(%d)=%v, model=%v", step, key, removed, modelRemoved)
			}
		} else {
			err := table.TryInsert(key, value)
			if err != nil {
				require.ErrorIs(tb, err, lrutable.ErrProbeExhausted, "step %d", step)

				if profile.exact && ref.Contains(key) {
					tb.Fatalf("step %d: TryInsert(%d) exhausted probe for a live key", step, key)
				}
			} else {
				ref.Insert(key, value)
			}
		}

		assertChainConsistent(tb, table)

		if profile.exact {
			assertMatchesModel(tb, table, ref, profile.keySpace)
		}
	}
}

// assertChainConsistent checks that walking next from oldest and prev from
// latest visit the same Len() entries in opposite orders.
func assertChainConsistent(tb testing.TB, table *lrutable.Table[int, int]) {
	tb.Helper()

	err := table.Validate()
	require.NotErrorIs(tb, err, lrutable.ErrChainBroken)

	forward := chainKeys(tb, table)
	backward := reverseChainKeys(tb, table)

	require.Len(tb, forward, table.Len())
	slices.Reverse(backward)
	require.Equal(tb, forward, backward)

	require.Equal(tb, table.Len() > 0, table.Oldest().Live)
	require.Equal(tb, table.Len() > 0, table.Latest().Live)
}

func assertMatchesModel(tb testing.TB, table *lrutable.Table[int, int], ref *model.Model[int, int], keySpace int) {
	tb.Helper()

	require.NoError(tb, table.Validate())

	if diff := cmp.Diff(ref.Keys(), chainKeys(tb, table), cmpopts.EquateEmpty()); diff != "" {
		tb.Fatalf("recency order mismatch (-model +table):\n%s", diff)
	}

	for key := range keySpace {
		wantValue, wantOK := ref.Get(key)
		gotValue, gotOK := table.Get(key)

		if wantOK != gotOK || wantValue != gotValue {
			tb.Fatalf("Get(%d)=(%d, %v), model=(%d, %v)", key, gotValue, gotOK, wantValue, wantOK)
		}
	}

	oldest, ok := ref.Oldest()
	if ok {
		require.Equal(tb, oldest.Key, table.Oldest().Key)
		require.Equal(tb, oldest.Value, table.Oldest().Value)
	}

	latest, ok := ref.Latest()
	if ok {
		require.Equal(tb, latest.Key, table.Latest().Key)
		require.Equal(tb, latest.Value, table.Latest().Value)
	}
}
