package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer is the delivery contract the OTP engine needs. Kept small so
// tests can swap in a recorder
type Mailer interface {
	SendOTP(sendTo, code string) error
}

type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		host: viper.GetString("mail.host"),
		port: viper.GetInt("mail.port"),
		user: viper.GetString("mail.username"),
		pass: viper.GetString("mail.password"),
		from: viper.GetString("mail.from"),
	}
}

func (s *SMTPMailer) SendOTP(sendTo, code string) error {
	if sendTo == s.from {
		return errors.New("invalid email address")
	}

	m := gomail.NewMessage()

	m.SetHeader("From", s.from)
	m.SetHeader("To", sendTo)
	m.SetHeader("Subject", "Email Verification Code")
	m.SetBody("text/html", fmt.Sprintf(
		"<h1>Email Verification</h1>"+
			"<p>Your verification code is: <strong>%v</strong></p>"+
			"<p>This code will expire in 30 minutes.</p>"+
			"<p>If you don't verify your email within 30 minutes, your account will be automatically deleted.</p>", code))

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)

	return d.DialAndSend(m)
}
