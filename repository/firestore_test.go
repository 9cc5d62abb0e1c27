package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"civicreport/repository"

	"cloud.google.com/go/firestore"
)

// Runs against the Firestore emulator, e.g.
//
//	gcloud emulators firestore start --host-port=localhost:8080
//	FIRESTORE_EMULATOR_HOST=localhost:8080 go test ./repository/
func TestFirestoreStoreContract(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	storeContract(t, func(t *testing.T) *repository.Store {
		ctx := context.Background()
		// the emulator keeps each project's data apart
		project := fmt.Sprintf("civicreport-test-%d", time.Now().UnixNano())
		client, err := firestore.NewClient(ctx, project)
		if err != nil {
			t.Fatalf("firestore client: %v", err)
		}
		store := repository.NewFirestoreStore(client)
		t.Cleanup(func() { store.Close(ctx) })
		return store
	})
}
