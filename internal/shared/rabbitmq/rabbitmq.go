// Package rabbitmq wraps the AMQP connection behind the reminder event bus.
// One channel carries both directions: inbound reminder commands consumed by
// the event consumer and outbound lifecycle broadcasts published after store
// mutations.
package rabbitmq

import (
	"github.com/rabbitmq/amqp091-go"
)

// Client owns the AMQP connection and its single channel.
type Client struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// Message is one consumed delivery. RoutingKey carries the topic the producer
// published under.
type Message struct {
	Body       []byte
	RoutingKey string
	delivery   amqp091.Delivery
}

// Ack acknowledges the message.
func (m *Message) Ack(multiple bool) error {
	return m.delivery.Ack(multiple)
}

// Nack rejects the message, optionally requeueing it.
func (m *Message) Nack(multiple, requeue bool) error {
	return m.delivery.Nack(multiple, requeue)
}

// Dial connects to the broker and opens the channel.
func Dial(url string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Client{
		conn:    conn,
		channel: channel,
	}, nil
}

// DeclareTopic declares a durable topic exchange. Declaration is idempotent,
// so both the consuming and the publishing side call it on startup and
// whichever runs first wins.
func (c *Client) DeclareTopic(exchange string) error {
	return c.channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
}

// BindConsumerQueue declares a durable queue and binds it to the exchange
// under the given routing pattern.
func (c *Client) BindConsumerQueue(queue, routingKey, exchange string) error {
	if _, err := c.channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return err
	}

	return c.channel.QueueBind(
		queue,
		routingKey,
		exchange,
		false, // no-wait
		nil,   // arguments
	)
}

// Consume starts delivering messages from the queue. Acknowledgement is
// manual; callers must Ack or Nack every message.
func (c *Client) Consume(queue, consumerTag string) (<-chan Message, error) {
	msgs, err := c.channel.Consume(
		queue,
		consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}

	messageChan := make(chan Message)
	go func() {
		for d := range msgs {
			messageChan <- Message{
				Body:       d.Body,
				RoutingKey: d.RoutingKey,
				delivery:   d,
			}
		}
		close(messageChan)
	}()

	return messageChan, nil
}

// Publish sends a JSON body to the exchange under the routing key.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	return c.channel.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
