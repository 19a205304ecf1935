package mailservice

import (
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/blogapi/internal/common"
)

const welcomeTemplate = "welcome_email.html"

type MailService struct {
	mb        common.MessageConsumer
	m         Mailer
	logger    MailLogger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	retries   int
	baseDelay time.Duration
}

// Config holds the SMTP settings of the mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

// Template renders the embedded email templates, parsing each file once.
type Template struct {
	mu     sync.Mutex
	parsed map[string]*template.Template
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	Render(name string, data any) (*message, error)
}

type welcomeData struct {
	FirstName string
}
