package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	SettlementExchange = "settlement"

	NotificationQueueName = "settlement_notifications"
	WalletQueueName       = "settlement_wallet_provisioning"

	RoutingKeyNotification   = "notification"
	RoutingKeyUserRegistered = "user_registered"
)

var bindings = map[string]string{
	NotificationQueueName: RoutingKeyNotification,
	WalletQueueName:       RoutingKeyUserRegistered,
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		SettlementExchange, // name
		"direct",           // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	for queueName, routingKey := range bindings {
		_, err = channel.QueueDeclare(
			queueName, // name
			true,      // durable
			false,     // delete when unused
			false,     // exclusive
			false,     // no-wait
			amqp.Table{
				"x-max-priority": 10,
			},
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}

		if err := channel.QueueBind(queueName, routingKey, SettlementExchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue %s: %w", queueName, err)
		}
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish sends task to the settlement exchange. An int "priority" field in
// the task sets the message priority (0-10, default 1).
func (c *Client) Publish(routingKey string, task map[string]interface{}) error {
	taskJSON, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.Publish(
		SettlementExchange, // exchange
		routingKey,         // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         taskJSON,
			Priority:     taskPriority(task),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish message to exchange=%s, routing_key=%s: %v", SettlementExchange, routingKey, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published task to exchange=%s, routing_key=%s: %s", SettlementExchange, routingKey, string(taskJSON))
	return nil
}

// Consume delivers tasks from queueName to handler. Malformed messages are
// dropped; handler errors requeue the message.
func (c *Client) Consume(queueName string, handler func(task map[string]interface{}) error) error {
	msgs, err := c.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", queueName)

	go func() {
		for msg := range msgs {
			task, err := decodeTask(msg.Body)
			if err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal task: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(task); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed on queue=%s: %v, task=%+v", queueName, err, task)
				msg.Nack(false, !msg.Redelivered)
				continue
			}

			msg.Ack(false)
		}
		c.logger.Warn("[RABBITMQ] Delivery channel closed for queue: %s", queueName)
	}()

	return nil
}

func decodeTask(body []byte) (map[string]interface{}, error) {
	var task map[string]interface{}
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("empty task")
	}
	return task, nil
}

func taskPriority(task map[string]interface{}) uint8 {
	priority := 1
	if p, ok := task["priority"].(int); ok {
		priority = p
	}
	if priority < 0 {
		priority = 0
	}
	if priority > 10 {
		priority = 10
	}
	return uint8(priority)
}
