package services

import (
	"fmt"
	"time"

	"github.com/Danibruno18/credix/config"
	"gopkg.in/gomail.v2"
)

// BudgetNotifier уведомляет пользователя о превышении лимита категории
type BudgetNotifier interface {
	SendBudgetAlert(alert BudgetAlert) error
}

// BudgetAlert данные уведомления о превышении бюджета
type BudgetAlert struct {
	To           string
	FullName     string
	CategoryName string
	Limit        float64
	Spent        float64
	Month        int
	Year         int
}

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService создает новый экземпляр EmailService.
// Возвращает nil, если SMTP не настроен.
func NewEmailService(cfg *config.Config) *EmailService {
	if cfg.SMTP.Host == "" {
		return nil
	}

	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %w", err)
	}
	return nil
}

// SendBudgetAlert отправляет уведомление о превышении бюджета категории
func (s *EmailService) SendBudgetAlert(alert BudgetAlert) error {
	subject := fmt.Sprintf("Orçamento excedido: %s", alert.CategoryName)
	body := fmt.Sprintf(`
		<h2>Olá, %s</h2>
		<p>Os gastos da categoria <b>%s</b> em %02d/%d ultrapassaram o limite.</p>
		<p>Limite: %.2f</p>
		<p>Gasto: %.2f</p>
		<p>Data: %s</p>
	`, alert.FullName, alert.CategoryName, alert.Month, alert.Year, alert.Limit, alert.Spent,
		time.Now().UTC().Format("02.01.2006 15:04:05"))

	return s.SendEmail(alert.To, subject, body)
}
