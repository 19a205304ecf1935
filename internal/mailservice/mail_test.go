package mailservice

import (
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendEmail(t *testing.T) {
	mockParser := new(MockTemplate)
	mockDialer := new(MockDialer)

	mailer := Mail{
		dialer: mockDialer,
		parser: mockParser,
		sender: "sender@example.com",
	}

	data := welcomeData{FirstName: "Ada"}

	rendered := &message{Subject: "Test Subject", PlainBody: "Test Plain Body", HTMLBody: "Test HTML Body"}
	mockParser.On("Render", welcomeTemplate, data).Return(rendered, nil)

	mockDialer.On("DialAndSend", mock.MatchedBy(func(msgs []*mail.Message) bool {
		return len(msgs) == 1 &&
			assert.ObjectsAreEqual([]string{"Test Subject"}, msgs[0].GetHeader("Subject")) &&
			assert.ObjectsAreEqual([]string{"test@example.com"}, msgs[0].GetHeader("To"))
	})).Return(nil)

	err := mailer.send("test@example.com", data, welcomeTemplate)
	assert.NoError(t, err)

	mockParser.AssertExpectations(t)
	mockDialer.AssertExpectations(t)
}

func TestSendEmailErrors(t *testing.T) {
	t.Run("template error", func(t *testing.T) {
		mockParser := new(MockTemplate)
		mockDialer := new(MockDialer)
		mailer := Mail{dialer: mockDialer, parser: mockParser, sender: "sender@example.com"}

		mockParser.On("Render", "missing.html", nil).Return(nil, errors.New("could not parse template"))

		err := mailer.send("test@example.com", nil, "missing.html")
		assert.Error(t, err)
		mockDialer.AssertNotCalled(t, "DialAndSend", mock.Anything)
	})

	t.Run("dial error", func(t *testing.T) {
		mockParser := new(MockTemplate)
		mockDialer := new(MockDialer)
		mailer := Mail{dialer: mockDialer, parser: mockParser, sender: "sender@example.com"}

		mockParser.On("Render", welcomeTemplate, mock.Anything).Return(&message{Subject: "x", PlainBody: "x", HTMLBody: "x"}, nil)
		mockDialer.On("DialAndSend", mock.Anything).Return(errors.New("connection refused"))

		err := mailer.send("test@example.com", welcomeData{}, welcomeTemplate)
		assert.EqualError(t, err, "connection refused")
	})
}
