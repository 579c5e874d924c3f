package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

// PostPurgeQueue carries cascade deletes that did not finish inline.
const PostPurgeQueue = "post_purge"

// DefaultRetryDelay is the pause before a failed purge is requeued.
const DefaultRetryDelay = 5 * time.Second

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	mu         sync.Mutex
	retryDelay time.Duration
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL        string
	RetryDelay time.Duration
}

// PostPurge is the message published for one pending cascade delete.
type PostPurge struct {
	PostID   string    `json:"post_id"`
	QueuedAt time.Time `json:"queued_at"`
}

// NewClient connects to RabbitMQ, opens a channel and declares the purge
// queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declarePurgeQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("RabbitMQ client connected and %s declared.", PostPurgeQueue)

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Client{
		conn:       conn,
		channel:    ch,
		retryDelay: retryDelay,
	}, nil
}

func declarePurgeQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		PostPurgeQueue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", PostPurgeQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishPostPurge queues a cascade delete of postID.
func (c *Client) PublishPostPurge(postID string) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := EncodePostPurge(postID)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishes
	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",             // exchange: default exchange
		PostPurgeQueue, // routing key: the queue name
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish purge of post %s: %w", postID, err)
	}

	log.Printf(" [x] Queued purge of post %s", postID)
	return nil
}

// ConsumePostPurges delivers queued purges to handler in a goroutine. A
// handler error requeues the message after the retry delay.
func (c *Client) ConsumePostPurges(handler func(postID string) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		PostPurgeQueue, // queue
		"",             // consumer tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for post purges")

	go func() {
		for msg := range msgs {
			process(msg, handler, c.retryDelay)
		}
	}()
	return nil
}

// EncodePostPurge builds the message body for postID.
func EncodePostPurge(postID string) ([]byte, error) {
	if postID == "" {
		return nil, fmt.Errorf("post id is required")
	}
	body, err := json.Marshal(PostPurge{PostID: postID, QueuedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal purge message: %w", err)
	}
	return body, nil
}

// DecodePostPurge parses a message body built by EncodePostPurge.
func DecodePostPurge(body []byte) (PostPurge, error) {
	var p PostPurge
	if err := json.Unmarshal(body, &p); err != nil {
		return PostPurge{}, fmt.Errorf("failed to unmarshal purge message: %w", err)
	}
	if p.PostID == "" {
		return PostPurge{}, fmt.Errorf("purge message without post id")
	}
	return p, nil
}

// process runs handler for one delivery. Malformed messages are dropped since
// a retry cannot fix them.
func process(msg amqp.Delivery, handler func(postID string) error, retryDelay time.Duration) {
	purge, err := DecodePostPurge(msg.Body)
	if err != nil {
		log.Printf("Dropping message %d: %v", msg.DeliveryTag, err)
		if rejectErr := msg.Reject(false); rejectErr != nil {
			log.Printf("Error rejecting message %d: %v", msg.DeliveryTag, rejectErr)
		}
		return
	}

	if err := handler(purge.PostID); err != nil {
		log.Printf("Error purging post %s: %v", purge.PostID, err)
		time.Sleep(retryDelay)
		if requeueErr := msg.Nack(false, true); requeueErr != nil {
			log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
	}
}
