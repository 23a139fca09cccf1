package rmqconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"media-gallery-api/config"
	"media-gallery-api/internal/domain/activity"
	"media-gallery-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

var errMalformed = errors.New("malformed activity event")

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	repo       activity.Repository
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(cfg config.MQ, logger *zap.Logger, repo activity.Repository) *Consumer {
	return &Consumer{
		cfg:  cfg,
		log:  logger,
		repo: repo,
	}
}

func (c *Consumer) Connect(dsn string) error {
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.conn, c.chConsume = conn, ch

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range mq.RoutingKeys {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	deliveries, err := c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.chDelivery = deliveries

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				return
			}
			c.handle(ctx, msg)
		case <-ctx.Done():
			if c.chConsume != nil {
				_ = c.chConsume.Close()
			}
			if c.conn != nil {
				_ = c.conn.Close()
			}
			return
		}
	}
}

// handle acks persisted events, drops malformed ones and requeues the rest.
func (c *Consumer) handle(ctx context.Context, msg amqp091.Delivery) {
	err := c.delivery(ctx, msg)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, errMalformed):
		c.log.Warn("dropping activity message", zap.Error(err), zap.String("routing_key", msg.RoutingKey))
		_ = msg.Nack(false, false)
	default:
		c.log.Error("mq read message error", zap.Error(err))
		_ = msg.Nack(false, !msg.Redelivered)
	}
}

func (c *Consumer) delivery(ctx context.Context, msg amqp091.Delivery) error {
	var e activity.Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if !e.Action.Valid() || string(e.Action) != msg.RoutingKey {
		return fmt.Errorf("%w: action %q on routing key %q", errMalformed, e.Action, msg.RoutingKey)
	}

	if err := c.repo.Insert(ctx, e); err != nil {
		return err
	}

	c.log.Debug("activity event stored",
		zap.String("event_id", e.ID.String()),
		zap.String("action", string(e.Action)),
		zap.String("kind", e.Kind.String()),
	)

	return nil
}
