package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// Notifier sends attendance notifications. Sends are fire-and-forget from
// the caller's point of view: a returned error must never roll back or block
// the attendance mutation that triggered it.
type Notifier interface {
	SendAutoClockoutNotification(ctx context.Context, to, employeeName, employeeID, clockOutTime string) error
	SendMissedClockoutReminder(ctx context.Context, to, employeeName, employeeID, firstClockIn string) error
	SendEarlyClockoutAlert(ctx context.Context, to, employeeName, employeeID string, finalHours, requiredHours float64) error
	SendWeeklyReport(ctx context.Context, to, employeeID string, data WeeklyReportData) error
}

type WeeklyReportRow struct {
	Day      string
	ClockIn  string
	ClockOut string
	Hours    string
}

type WeeklyReportData struct {
	EmployeeName string
	WeekStart    string
	WeekEnd      string
	TotalHours   string
	AvgHours     string
	DaysWorked   int
	Rows         []WeeklyReportRow
	Year         int
}

type notifierImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	logs      LogRepository
}

// NewNotifier creates an SMTP-backed notifier. logs may be nil, in which case
// outcomes are only written to the process log.
func NewNotifier(cfg config.SMTPConfig, logs LogRepository) (Notifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &notifierImpl{
		cfg:       cfg,
		templates: tmpl,
		logs:      logs,
	}, nil
}

func (s *notifierImpl) SendAutoClockoutNotification(ctx context.Context, to, employeeName, employeeID, clockOutTime string) error {
	data := struct {
		EmployeeName string
		ClockOutTime string
	}{employeeName, clockOutTime}

	err := s.render(to, "Automatic Clock-Out Notification", "auto_clockout.html", data)
	s.logOutcome(ctx, TypeAutoClockout, to, employeeID,
		fmt.Sprintf("auto clock-out notification for %s", clockOutTime), err)
	return err
}

func (s *notifierImpl) SendMissedClockoutReminder(ctx context.Context, to, employeeName, employeeID, firstClockIn string) error {
	data := struct {
		EmployeeName string
		FirstClockIn string
	}{employeeName, firstClockIn}

	err := s.render(to, "Reminder: You Forgot to Clock Out", "missed_clockout.html", data)
	s.logOutcome(ctx, TypeMissedClockout, to, employeeID, "missed clock-out reminder", err)
	return err
}

func (s *notifierImpl) SendEarlyClockoutAlert(ctx context.Context, to, employeeName, employeeID string, finalHours, requiredHours float64) error {
	data := struct {
		EmployeeName  string
		FinalHours    string
		RequiredHours string
	}{employeeName, fmt.Sprintf("%.2f", finalHours), fmt.Sprintf("%.1f", requiredHours)}

	err := s.render(to, "Early Clock-Out Alert", "early_clockout.html", data)
	s.logOutcome(ctx, TypeEarlyClockout, to, employeeID,
		fmt.Sprintf("early clock-out alert, hours: %.2f", finalHours), err)
	return err
}

func (s *notifierImpl) SendWeeklyReport(ctx context.Context, to, employeeID string, data WeeklyReportData) error {
	subject := fmt.Sprintf("Weekly Attendance Report - Week of %s", data.WeekStart)
	err := s.render(to, subject, "weekly_report.html", data)
	s.logOutcome(ctx, TypeWeeklyReport, to, employeeID,
		fmt.Sprintf("weekly report %s - %s", data.WeekStart, data.WeekEnd), err)
	return err
}

func (s *notifierImpl) render(to, subject, templateName string, data any) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return s.sendHTML(to, subject, body.String())
}

func (s *notifierImpl) logOutcome(ctx context.Context, emailType, recipient, employeeID, details string, sendErr error) {
	if s.logs == nil {
		return
	}

	status := LogStatusSuccess
	if sendErr != nil {
		status = LogStatusFailed
		details = details + ": " + sendErr.Error()
	}

	if err := s.logs.Create(ctx, Log{
		EmailType:  emailType,
		Recipient:  recipient,
		EmployeeID: employeeID,
		Status:     status,
		Details:    details,
	}); err != nil {
		slog.Error("Failed to write email log", "type", emailType, "recipient", recipient, "error", err)
	}
}

func (s *notifierImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}
		lastErr = err
		slog.Warn("Email send failed, retrying", "to", to, "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
