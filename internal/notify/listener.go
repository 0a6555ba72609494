// Package notify relays Postgres order-change notifications to UI sessions.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xelth-com/freshroute/internal/utils"
	"gorm.io/gorm"
)

// MessageType is the push message sent when orders change.
const MessageType = "ORDERS_CHANGED"

// Broadcaster receives decoded notifications.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// OrderChange is the trigger payload.
type OrderChange struct {
	Op           string `json:"op"`
	OrderID      uint   `json:"id"`
	DeliveryDate string `json:"delivery_date,omitempty"`
	RouteName    string `json:"route_name,omitempty"`
	Status       string `json:"status,omitempty"`
}

// ParsePayload decodes a trigger payload. Unknown payloads are passed through
// as a bare change so sessions still refresh.
func ParsePayload(payload string) OrderChange {
	var c OrderChange
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		log.Printf("⚠️  Notify: unreadable payload %q: %v", payload, err)
		return OrderChange{Op: "UNKNOWN"}
	}
	return c
}

const triggerSQL = `
CREATE OR REPLACE FUNCTION notify_orders_changed() RETURNS trigger AS $$
DECLARE
	rec RECORD;
BEGIN
	IF TG_OP = 'DELETE' THEN rec := OLD; ELSE rec := NEW; END IF;
	PERFORM pg_notify(TG_ARGV[0], json_build_object(
		'op', TG_OP,
		'id', rec.id,
		'delivery_date', rec.delivery_date,
		'route_name', rec.route_name,
		'status', rec.status
	)::text);
	RETURN rec;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS orders_changed ON orders;
CREATE TRIGGER orders_changed AFTER INSERT OR UPDATE OR DELETE ON orders
	FOR EACH ROW EXECUTE FUNCTION notify_orders_changed(%s);
`

// InstallTrigger creates the trigger that notifies channel on every order write.
func InstallTrigger(db *gorm.DB, channel string) error {
	quoted := "'" + strings.ReplaceAll(channel, "'", "''") + "'"
	if err := db.Exec(fmt.Sprintf(triggerSQL, quoted)).Error; err != nil {
		return fmt.Errorf("failed to install orders trigger: %w", err)
	}
	return nil
}

// Listener holds a dedicated connection LISTENing on a channel.
type Listener struct {
	dsn     string
	channel string
	out     Broadcaster
	backoff time.Duration
	dedup   *utils.Deduplicator
}

func NewListener(dsn, channel string, out Broadcaster) *Listener {
	return &Listener{
		dsn:     dsn,
		channel: channel,
		out:     out,
		backoff: 5 * time.Second,
		dedup:   utils.NewDeduplicator(time.Second),
	}
}

// Deliver forwards one raw payload, dropping repeats within the window.
func (l *Listener) Deliver(payload string) {
	if l.dedup.IsDuplicate(payload) {
		return
	}
	if err := l.out.Broadcast(MessageType, ParsePayload(payload)); err != nil {
		log.Printf("⚠️  Notify: broadcast failed: %v", err)
	}
}

// Run listens until ctx is cancelled, reconnecting after failures.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Printf("⚠️  Notify: listener stopped: %v, reconnecting in %s", err, l.backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.backoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Printf("👂 Listening for order changes on %q", l.channel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.Deliver(n.Payload)
	}
}
