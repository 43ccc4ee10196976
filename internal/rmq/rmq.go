// Package rmq wraps the small slice of AMQP functionality the schedule
// service needs: declaring a named queue and producing to / consuming from it.
package rmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

func FormatConnectionString(host string, port int, vhost string, user string, password string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", user, password, host, port, vhost)
}

type Producer interface {
	Send(ctx context.Context, data []byte) error
}

type Consumer interface {
	Recv(ctx context.Context) (<-chan amqp.Delivery, error)
}

func NewProducer(conn *amqp.Connection, queueName string) (Producer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	queue, err := ch.QueueDeclare(queueName, false, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	return &producer{
		ch:    ch,
		queue: queue,
	}, nil
}

func NewConsumer(conn *amqp.Connection, queueName string) (Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	queue, err := ch.QueueDeclare(queueName, false, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	return &consumer{
		ch:    ch,
		queue: queue,
	}, nil
}

type producer struct {
	ch    *amqp.Channel
	queue amqp.Queue
}

func (p *producer) Send(ctx context.Context, data []byte) error {
	return p.ch.PublishWithContext(ctx, "", p.queue.Name, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        data,
	})
}

type consumer struct {
	ch    *amqp.Channel
	queue amqp.Queue
}

func (c *consumer) Recv(ctx context.Context) (<-chan amqp.Delivery, error) {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}
