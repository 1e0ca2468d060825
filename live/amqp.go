package live

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
)

// AMQPSource listens on a fanout exchange. Every subscription gets its own
// exclusive auto-delete queue, so it sees only events published while it
// is connected.
type AMQPSource struct {
	url      string
	exchange string
	log      *logger.Logger
}

func NewAMQPSource(url, exchange string) *AMQPSource {
	return &AMQPSource{url: url, exchange: exchange, log: logger.New("live")}
}

func (s *AMQPSource) Subscribe(ctx context.Context) (<-chan Event, error) {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	closeAll := func() {
		_ = ch.Close()
		_ = conn.Close()
	}
	if err := ch.ExchangeDeclare(s.exchange, "fanout", true, false, false, false, nil); err != nil {
		closeAll()
		return nil, fmt.Errorf("declare %s: %w", s.exchange, err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", s.exchange, false, nil); err != nil {
		closeAll()
		return nil, fmt.Errorf("bind %s: %w", q.Name, err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("consume %s: %w", q.Name, err)
	}
	s.log.Info("live_subscribed", map[string]any{"exchange": s.exchange, "queue": q.Name})

	out := make(chan Event, 16)
	go func() {
		defer closeAll()
		pump(ctx, deliveries, out, s.log)
	}()
	return out, nil
}

// pump decodes deliveries into out until ctx is done or the broker closes
// the delivery channel. It closes out.
func pump(ctx context.Context, deliveries <-chan amqp.Delivery, out chan<- Event, log *logger.Logger) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Warn("live_channel_closed", nil, nil)
				return
			}
			ev, err := decode(d.Body)
			if err != nil {
				log.Warn("live_bad_event", err, map[string]any{"bytes": len(d.Body)})
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func decode(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, err
	}
	if ev.Type == "" || ev.OrderID == 0 {
		return Event{}, fmt.Errorf("event missing type or order id")
	}
	return ev, nil
}

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher is what the backend uses to announce order changes
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       amqpPublisher
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    ev.At,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	if c, ok := p.ch.(*amqp.Channel); ok {
		_ = c.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
