package firestore

import (
	"context"
	"errors"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const dialTimeout = 10 * time.Second

// ErrClosed is returned once the provider has been shut down.
var ErrClosed = errors.New("firestore: provider closed")

// Settings carries the connection parameters for the shared client.
type Settings struct {
	ProjectID       string
	DatabaseID      string
	CredentialsFile string
	EmulatorHost    string
}

// Provider dials the Firestore client once, on first use, and hands the same
// client to every repository afterwards.
type Provider struct {
	settings Settings

	once    sync.Once
	client  *firestore.Client
	initErr error

	mu     sync.Mutex
	closed bool
}

// NewProvider validates the settings and returns an undialed provider.
func NewProvider(settings Settings) (*Provider, error) {
	if settings.ProjectID == "" {
		return nil, errors.New("firestore: project id is required")
	}
	return &Provider{settings: settings}, nil
}

// Client returns the shared client, dialing it on the first call.
func (p *Provider) Client(ctx context.Context) (*firestore.Client, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.mu.Unlock()

	p.once.Do(func() {
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		p.client, p.initErr = dial(dialCtx, p.settings)
	})
	if p.initErr != nil {
		return nil, Wrap("firestore.dial", p.initErr)
	}
	return p.client, nil
}

// Close releases the client. Subsequent Client calls fail with ErrClosed.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func dial(ctx context.Context, settings Settings) (*firestore.Client, error) {
	var opts []option.ClientOption
	switch {
	case settings.EmulatorHost != "":
		opts = append(opts,
			option.WithEndpoint(settings.EmulatorHost),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	case settings.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(settings.CredentialsFile))
	}

	if settings.DatabaseID != "" {
		return firestore.NewClientWithDatabase(ctx, settings.ProjectID, settings.DatabaseID, opts...)
	}
	return firestore.NewClient(ctx, settings.ProjectID, opts...)
}
