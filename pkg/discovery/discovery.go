package discovery

import (
	"context"
	"fmt"

	"github.com/example/freshmart/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// InstanceGuard holds an etcd lease on a well-known key so that only one bot
// instance polls the transport at a time. Two pollers on the same credential
// consume each other's updates, so a second instance must fail at startup
// rather than run.
type InstanceGuard struct {
	client  *clientv3.Client
	config  *config.EtcdConfig
	leaseID clientv3.LeaseID
	key     string
}

func NewInstanceGuard(cfg *config.EtcdConfig) (*InstanceGuard, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &InstanceGuard{
		client: cli,
		config: cfg,
		key:    cfg.Prefix + "bot/instance",
	}, nil
}

// Acquire takes the instance key under a 30 second lease and keeps it alive.
// It fails when another instance already holds the key.
func (g *InstanceGuard) Acquire(ctx context.Context, instance string) error {
	lease, err := g.client.Grant(ctx, 30)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	resp, err := g.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(g.key), "=", 0)).
		Then(clientv3.OpPut(g.key, instance, clientv3.WithLease(lease.ID))).
		Else(clientv3.OpGet(g.key)).
		Commit()
	if err != nil {
		return fmt.Errorf("failed to acquire instance key: %w", err)
	}
	if !resp.Succeeded {
		holder := "unknown"
		if kvs := resp.Responses[0].GetResponseRange().Kvs; len(kvs) > 0 {
			holder = string(kvs[0].Value)
		}
		return fmt.Errorf("instance key %s already held by %s", g.key, holder)
	}

	// Keep the lease alive for the life of the process; the channel is
	// drained so the client keeps renewing.
	ch, kaerr := g.client.KeepAlive(ctx, lease.ID)
	if kaerr != nil {
		return fmt.Errorf("failed to keep alive: %w", kaerr)
	}
	go func() {
		for ka := range ch {
			_ = ka
		}
	}()

	g.leaseID = lease.ID
	return nil
}

// Release revokes the lease, freeing the instance key immediately.
func (g *InstanceGuard) Release(ctx context.Context) error {
	if g.leaseID == 0 {
		return nil
	}
	if _, err := g.client.Revoke(ctx, g.leaseID); err != nil {
		return fmt.Errorf("failed to revoke lease: %w", err)
	}
	g.leaseID = 0
	return nil
}

func (g *InstanceGuard) Close() error {
	return g.client.Close()
}
