package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-lettergen/pkg/letter"
)

// backends returns each Store implementation under a label so every case
// runs against both.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	b, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return map[string]Store{
		"badger": b,
		"memory": NewMemory(),
	}
}

func sampleSession(id string) letter.Session {
	return letter.Session{
		ID:             id,
		OwnerID:        "hr-ops",
		State:          letter.StateCollectingManual,
		TemplateID:     "tpl-offer",
		InputMethod:    letter.InputManual,
		RequiredFields: []string{"employee_name", "designation"},
		CollectedValues: map[string]string{
			"employee_name": "Asha Rao",
		},
		FieldStatus: map[string]letter.FieldStatus{
			"employee_name": letter.FieldValid,
		},
	}
}

func TestSessionRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleSession("sess-1")

			require.NoError(t, s.PutSession(ctx, want))

			got, err := s.GetSession(ctx, "sess-1")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSessionNotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetSession(context.Background(), "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestDeleteSession(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.PutSession(ctx, sampleSession("sess-gone")))
			require.NoError(t, s.DeleteSession(ctx, "sess-gone"))

			_, err := s.GetSession(ctx, "sess-gone")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting again stays quiet.
			assert.NoError(t, s.DeleteSession(ctx, "sess-gone"))
		})
	}
}

func TestStoredSessionIsIsolatedFromCaller(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			original := sampleSession("sess-iso")
			require.NoError(t, s.PutSession(ctx, original))

			// Mutating the caller's copy must not leak into the store.
			original.CollectedValues["employee_name"] = "changed"

			got, err := s.GetSession(ctx, "sess-iso")
			require.NoError(t, err)
			assert.Equal(t, "Asha Rao", got.CollectedValues["employee_name"])
		})
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := letter.Artifact{
				ID:                 "art-1",
				TemplateID:         "tpl-offer",
				EncryptedRecipient: "b64-ciphertext",
				PhoneHash:          "abc123",
				Content:            "Dear Asha Rao,",
				ContentType:        "text/plain; charset=utf-8",
				FieldValues:        map[string]string{"designation": "Staff Engineer"},
				Status:             letter.ArtifactGenerated,
				CreatedAt:          time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			}

			require.NoError(t, s.PutArtifact(ctx, want))

			got, err := s.GetArtifact(ctx, "art-1")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestListArtifactsPreservesOrder(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, id := range []string{"art-a", "art-b", "art-c"} {
				require.NoError(t, s.PutArtifact(ctx, letter.Artifact{ID: id, Status: letter.ArtifactGenerated}))
			}

			got, err := s.ListArtifacts(ctx, []string{"art-c", "art-a"})
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "art-c", got[0].ID)
			assert.Equal(t, "art-a", got[1].ID)

			_, err = s.ListArtifacts(ctx, []string{"art-a", "art-missing"})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestConcurrentWritesOnDistinctSessions(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					id := fmt.Sprintf("sess-%d", i)
					session := sampleSession(id)
					for j := 0; j < 10; j++ {
						session.CollectedValues["designation"] = fmt.Sprintf("rev-%d", j)
						if err := s.PutSession(ctx, session); err != nil {
							t.Errorf("put %s: %v", id, err)
							return
						}
					}
				}(i)
			}
			wg.Wait()

			got, err := s.GetSession(ctx, "sess-0")
			require.NoError(t, err)
			assert.Equal(t, "rev-9", got.CollectedValues["designation"])
		})
	}
}

func TestCancelledContextRejected(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			assert.Error(t, s.PutSession(ctx, sampleSession("sess-ctx")))
			_, err := s.GetSession(ctx, "sess-ctx")
			assert.Error(t, err)
		})
	}
}
