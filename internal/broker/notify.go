package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/baohm88/mycabs/internal/domain"
	"github.com/baohm88/mycabs/pkg"
)

// NotifyBroker carries notification events between the market-service (which
// publishes) and the notify-service (which consumes and pushes over
// websocket). Both sides use the same type; pass consume=true on the
// consuming side.
type NotifyBroker struct {
	logger    *slog.Logger
	conn      *amqp091.Connection
	connClose chan *amqp091.Error
	ch        *amqp091.Channel
	events    chan *domain.NotifyEvent
	consume   bool
	isClosed  atomic.Bool
}

func NewNotifyRabbit(cfg pkg.RabbitMQCfg, slogger *slog.Logger, consume bool) (*NotifyBroker, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	myRab := &NotifyBroker{
		logger:  slogger,
		events:  make(chan *domain.NotifyEvent),
		consume: consume,
	}

	err := myRab.createChannel(dsn)
	if err != nil {
		return nil, err
	}

	go myRab.reconnectConn(dsn)
	return myRab, nil
}

func (b *NotifyBroker) reconnectConn(dsn string) {
	for {
		<-b.connClose
		if b.isClosed.Load() {
			return
		}
		b.logger.Warn("rabbitMQ not working")
		for {
			if b.isClosed.Load() {
				return
			}
			b.logger.Info("trying to connect to rabbitmq")
			err := b.createChannel(dsn)
			if err != nil {
				time.Sleep(3 * time.Second)
				continue
			}
			b.logger.Info("connected to rabbitmq")
			break
		}
	}
}

func (b *NotifyBroker) createChannel(dsn string) error {
	myConn, err := amqp091.Dial(dsn)
	if err != nil {
		return err
	}
	b.conn = myConn
	b.connClose = make(chan *amqp091.Error)
	b.conn.NotifyClose(b.connClose)
	ch, err := b.conn.Channel()
	if err != nil {
		return errors.Join(b.conn.Close(), err)
	}
	b.ch = ch

	err = ch.ExchangeDeclare(
		"notify_topic", // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return errors.Join(b.conn.Close(), err)
	}

	if !b.consume {
		return nil
	}

	que, err := ch.QueueDeclare("notify_events", true, false, false, false, nil)
	if err != nil {
		return errors.Join(b.conn.Close(), err)
	}
	err = ch.QueueBind(que.Name, "notify.#", "notify_topic", false, nil)
	if err != nil {
		return errors.Join(b.conn.Close(), err)
	}

	msgs, err := ch.Consume(
		que.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return errors.Join(b.conn.Close(), err)
	}

	go func() {
		for msg := range msgs {
			ev := new(domain.NotifyEvent)
			if err := json.Unmarshal(msg.Body, ev); err != nil {
				b.logger.Error("cannot unmarshal notify event", "action", "consume notify", "error", err)
				continue
			}
			b.events <- ev
		}
	}()

	return nil
}

func (b *NotifyBroker) PublishUser(ctx context.Context, ev *domain.NotifyEvent) error {
	return b.publish(ctx, fmt.Sprintf("notify.user.%s", ev.UserID), ev)
}

func (b *NotifyBroker) PublishAdmin(ctx context.Context, ev *domain.NotifyEvent) error {
	return b.publish(ctx, "notify.admin.tx", ev)
}

func (b *NotifyBroker) publish(ctx context.Context, key string, ev *domain.NotifyEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.ch.PublishWithContext(ctx,
		"notify_topic",
		key,
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			MessageId:   uuid.NewString(),
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}

func (b *NotifyBroker) GiveEventChannel() <-chan *domain.NotifyEvent {
	return b.events
}

func (b *NotifyBroker) CloseRabbit() error {
	b.isClosed.Store(true)
	defer b.logger.Info("rabbit closed")
	return b.conn.Close()
}
