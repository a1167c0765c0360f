package firestorestore

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/repositories/storetest"
)

// The suite runs against the Firestore emulator, e.g.
//
//	gcloud emulators firestore start --host-port=localhost:8686
//	FIRESTORE_EMULATOR_HOST=localhost:8686 go test ./internal/repositories/firestorestore
func TestStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "nano-social-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	storetest.Run(t, func(t *testing.T) repositories.Store {
		return sharedClient{New(client)}
	}, storetest.Options{Concurrency: 5})
}

type sharedClient struct {
	*Store
}

func (sharedClient) Close(context.Context) error { return nil }

func TestChunk(t *testing.T) {
	ids := make([]string, 65)
	for i := range ids {
		ids[i] = string(rune('a' + i%26))
	}
	chunks := chunk(ids, maxInValues)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 30)
	require.Len(t, chunks[1], 30)
	require.Len(t, chunks[2], 5)
	require.Empty(t, chunk(nil, maxInValues))
}
