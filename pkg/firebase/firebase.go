package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"github.com/charmbracelet/log"
	"google.golang.org/api/option"
)

// Options selects the project and credentials. An empty CredentialsPath
// falls back to application default credentials.
type Options struct {
	CredentialsPath string
	ProjectID       string
	StorageBucket   string
}

// App holds the initialized Firebase app. Clients are created on demand so
// deployments only dial the products they use.
type App struct {
	FirebaseApp *firebase.App
	bucket      string
}

// InitFirebase initializes the Firebase application.
func InitFirebase(ctx context.Context, opts Options) (*App, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsPath != "" {
		if _, err := os.Stat(opts.CredentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("Firebase credentials file not found at %s", opts.CredentialsPath)
		}
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsPath))
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     opts.ProjectID,
		StorageBucket: opts.StorageBucket,
	}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	log.Info("Firebase app initialized successfully!")
	return &App{FirebaseApp: firebaseApp, bucket: opts.StorageBucket}, nil
}

func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	client, err := a.FirebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}
	return client, nil
}

func (a *App) Messaging(ctx context.Context) (*messaging.Client, error) {
	client, err := a.FirebaseApp.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", err)
	}
	return client, nil
}

// Firestore returns a new client; the caller closes it.
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := a.FirebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}
	return client, nil
}

// Bucket returns the configured storage bucket and its name.
func (a *App) Bucket(ctx context.Context) (*gcs.BucketHandle, string, error) {
	client, err := a.FirebaseApp.Storage(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("error getting firebase storage client: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, "", fmt.Errorf("error opening storage bucket: %w", err)
	}
	return bucket, a.bucket, nil
}
