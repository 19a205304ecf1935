package mailservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/blogapi/internal/common"
)

const (
	maxRetries = 5
	baseDelay  = 500 * time.Millisecond
)

func NewMailService(mb common.MessageConsumer, cfg Config, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(cfg, NewTemplate()),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		retries:   maxRetries,
		baseDelay: baseDelay,
	}
}

// SendWelcomeEmail consumes user.created events in the background and greets every new user.
func (s *MailService) SendWelcomeEmail() error {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				s.handle(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping welcome email consumer")
				return
			}
		}
	}()

	return nil
}

// handle delivers one event. The message is acknowledged whatever the outcome so a bad
// address cannot block the queue.
func (s *MailService) handle(msg amqp.Delivery) {
	defer msg.Ack(false)

	event, err := common.DecodeUserCreated(msg.Body)
	if err != nil {
		s.logger.Error("skipping user.created message", slog.String("error", err.Error()))
		return
	}

	err = s.deliver(event)
	if err != nil {
		s.logger.Error("could not send welcome email", slog.String("email", event.Email), slog.String("error", err.Error()))
		return
	}

	s.logger.Info("welcome email sent", slog.String("email", event.Email))
}

// deliver sends the welcome email, retrying with exponential backoff and full jitter.
func (s *MailService) deliver(event common.UserCreatedEvent) error {
	data := welcomeData{FirstName: event.FirstName}

	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		err = s.m.send(event.Email, data, welcomeTemplate)
		if err == nil {
			return nil
		}

		if attempt == s.retries-1 {
			break
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay)<<uint(attempt) + 1))
		s.logger.Info("delaying welcome email", slog.String("email", event.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return errors.Join(err, s.ctx.Err())
		}
	}

	return err
}

// Close stops the consumer and waits for the in-flight email to finish.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
