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

	"github.com/baohm88/mycabs/pkg"
)

// HiringBroker owns the hiring cascade queue. Approvals publish a durable
// message naming the driver and the winning application; the consumer rejects
// every other Pending application of that driver. Manual acks mean an
// unprocessed message is redelivered after a crash, so the cascade runs
// at-least-once.
type HiringBroker struct {
	logger    *slog.Logger
	conn      *amqp091.Connection
	connClose chan *amqp091.Error
	ch        *amqp091.Channel
	cascades  chan *CascadeMessage
	isClosed  atomic.Bool
}

type CascadeMessage struct {
	delivery amqp091.Delivery
	DriverID string `json:"driver_id"`
	ExceptID string `json:"except_application_id"`
}

func (m *CascadeMessage) Ack() error  { return m.delivery.Ack(false) }
func (m *CascadeMessage) Nack() error { return m.delivery.Nack(false, true) }

func NewHiringRabbit(cfg pkg.RabbitMQCfg, slogger *slog.Logger) (*HiringBroker, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	myRab := &HiringBroker{
		logger:   slogger,
		cascades: make(chan *CascadeMessage),
	}

	err := myRab.createChannel(dsn)
	if err != nil {
		return nil, err
	}

	go myRab.reconnectConn(dsn)
	return myRab, nil
}

func (b *HiringBroker) reconnectConn(dsn string) {
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

func (b *HiringBroker) createChannel(dsn string) error {
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
		"hiring_topic", // name
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

	que, err := ch.QueueDeclare("hiring_cascade", true, false, false, false, nil)
	if err != nil {
		return errors.Join(b.conn.Close(), err)
	}
	err = ch.QueueBind(que.Name, "hiring.approved.*", "hiring_topic", false, nil)
	if err != nil {
		return errors.Join(b.conn.Close(), err)
	}

	msgs, err := ch.Consume(
		que.Name,
		"",
		false, // manual ack, redelivered if the worker dies
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
			cm := &CascadeMessage{delivery: msg}
			if err := json.Unmarshal(msg.Body, cm); err != nil {
				b.logger.Error("cannot unmarshal cascade message", "action", "hiring cascade", "error", err)
				msg.Ack(false)
				continue
			}
			b.cascades <- cm
		}
	}()

	return nil
}

func (b *HiringBroker) PublishApproved(ctx context.Context, driverID, exceptAppID string) error {
	body, err := json.Marshal(&CascadeMessage{DriverID: driverID, ExceptID: exceptAppID})
	if err != nil {
		return err
	}
	return b.ch.PublishWithContext(ctx,
		"hiring_topic",
		fmt.Sprintf("hiring.approved.%s", driverID),
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (b *HiringBroker) GiveCascadeChannel() <-chan *CascadeMessage {
	return b.cascades
}

func (b *HiringBroker) CloseRabbit() error {
	b.isClosed.Store(true)
	defer b.logger.Info("rabbit closed")
	return b.conn.Close()
}
