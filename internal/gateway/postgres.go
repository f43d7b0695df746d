package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/fashionchips/storefront/internal/apperr"
)

// notifyChannel is shared by every collection; the payload names the
// namespace and collection that changed.
const notifyChannel = "storefront_changes"

// PostgresGateway keeps each collection as JSONB rows in a single
// documents table and fans out changes over LISTEN/NOTIFY. All
// collections live under one application namespace.
type PostgresGateway struct {
	db        *pgxpool.Pool
	namespace string
}

func NewPostgresGateway(db *pgxpool.Pool, namespace string) *PostgresGateway {
	return &PostgresGateway{db: db, namespace: namespace}
}

func (g *PostgresGateway) CreateRecord(ctx context.Context, collection string, data any) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("gateway: failed to generate record ID: %w", err)
	}

	if err := g.put(ctx, collection, id.String(), data, false); err != nil {
		return "", err
	}
	return id.String(), nil
}

func (g *PostgresGateway) PutRecord(ctx context.Context, collection, id string, data any, merge bool) error {
	return g.put(ctx, collection, id, data, merge)
}

func (g *PostgresGateway) put(ctx context.Context, collection, id string, data any, merge bool) (err error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("gateway: failed to marshal record for %s/%s: %w", collection, id, err)
	}

	query := `
		INSERT INTO storefront.documents (namespace, collection, id, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`
	if merge {
		query = `
			INSERT INTO storefront.documents (namespace, collection, id, data)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (namespace, collection, id)
			DO UPDATE SET data = storefront.documents.data || EXCLUDED.data, updated_at = now()
		`
	}

	tx, err := g.db.Begin(ctx)
	if err != nil {
		return apperr.Remote("put "+collection, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("collection", collection).Str("id", id).Msg("gateway: failed to rollback put")
			}
		}
	}()

	if _, err = tx.Exec(ctx, query, g.namespace, collection, id, payload); err != nil {
		return apperr.Remote("put "+collection, err)
	}
	if err = g.notify(ctx, tx, collection); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return apperr.Remote("put "+collection, err)
	}
	return nil
}

func (g *PostgresGateway) DeleteRecord(ctx context.Context, collection, id string) (err error) {
	tx, err := g.db.Begin(ctx)
	if err != nil {
		return apperr.Remote("delete "+collection, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("collection", collection).Str("id", id).Msg("gateway: failed to rollback delete")
			}
		}
	}()

	query := `DELETE FROM storefront.documents WHERE namespace = $1 AND collection = $2 AND id = $3`
	if _, err = tx.Exec(ctx, query, g.namespace, collection, id); err != nil {
		return apperr.Remote("delete "+collection, err)
	}
	if err = g.notify(ctx, tx, collection); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return apperr.Remote("delete "+collection, err)
	}
	return nil
}

func (g *PostgresGateway) notify(ctx context.Context, tx pgx.Tx, collection string) error {
	_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, g.namespace+"/"+collection)
	if err != nil {
		return apperr.Remote("notify "+collection, err)
	}
	return nil
}

func (g *PostgresGateway) loadSnapshot(ctx context.Context, collection string) (Snapshot, error) {
	query := `
		SELECT id, data
		FROM storefront.documents
		WHERE namespace = $1 AND collection = $2
		ORDER BY created_at
	`
	rows, err := g.db.Query(ctx, query, g.namespace, collection)
	if err != nil {
		return nil, apperr.Remote("load "+collection, err)
	}
	defer rows.Close()

	snap := make(Snapshot, 0)
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, apperr.Remote("load "+collection, err)
		}
		snap = append(snap, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Remote("load "+collection, err)
	}
	return snap, nil
}

// Subscribe holds a dedicated connection on LISTEN and re-reads the
// full collection after every notification. The initial snapshot is
// delivered before Subscribe returns.
func (g *PostgresGateway) Subscribe(ctx context.Context, collection string, onChange func(Snapshot), onError func(error)) (Unsubscribe, error) {
	conn, err := g.db.Acquire(ctx)
	if err != nil {
		return nil, apperr.Remote("subscribe "+collection, err)
	}

	if _, err := conn.Exec(ctx, `LISTEN `+notifyChannel); err != nil {
		conn.Release()
		return nil, apperr.Remote("subscribe "+collection, err)
	}

	snap, err := g.loadSnapshot(ctx, collection)
	if err != nil {
		conn.Release()
		return nil, err
	}
	onChange(snap)

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer conn.Release()

		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}
				// A broken listen connection ends the subscription;
				// already-delivered state stays as-is.
				onError(apperr.Remote("subscribe "+collection, err))
				return
			}
			if notification.Payload != g.namespace+"/"+collection {
				continue
			}

			snap, err := g.loadSnapshot(subCtx, collection)
			if err != nil {
				onError(err)
				continue
			}
			onChange(snap)
		}
	}()

	log.Info().Str("collection", collection).Msg("gateway: subscription started")

	return func() {
		cancel()
		<-done
	}, nil
}
