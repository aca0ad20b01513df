package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"kidlanes/internal/models"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. With no from-address
// configured the service runs disabled and skips every send.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail sends a welcome email to a newly registered parent
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to KidLanes!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome to KidLanes!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Thank you for creating your KidLanes account! We're excited to help you build safe, curated video lanes for your children.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Add child profiles to your account</li>
				<li>Generate a lane from a simple prompt</li>
				<li>Track your children's watch progress</li>
				<li>Celebrate the badges they earn along the way</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s" class="button">Get Started</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from KidLanes. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Thank you for creating your KidLanes account! We're excited to help you build safe, curated video lanes for your children.

Here's what you can do next:
- Add child profiles to your account
- Generate a lane from a simple prompt
- Track your children's watch progress
- Celebrate the badges they earn along the way

Get started: %s

---
This is an automated email from KidLanes. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendBadgeEmail tells a parent their child just unlocked one or more badges
func (s *EmailService) SendBadgeEmail(ctx context.Context, toEmail, parentName, childName string, badges []models.EarnedBadge) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): badge notification to %s", toEmail)
		return nil
	}
	if len(badges) == 0 {
		return nil
	}

	labels := make([]string, 0, len(badges))
	for _, badge := range badges {
		labels = append(labels, models.BadgeLabel(badge.Kind))
	}

	subject := fmt.Sprintf("%s just earned a new badge!", childName)
	if len(badges) > 1 {
		subject = fmt.Sprintf("%s just earned %d new badges!", childName, len(badges))
	}

	var listItems strings.Builder
	for _, label := range labels {
		fmt.Fprintf(&listItems, "				<li>%s</li>\n", label)
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #f5a623; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>New Badge Unlocked!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>%s just earned:</p>
			<ul>
%s			</ul>
			<p style="text-align: center;">
				<a href="%s" class="button">See Their Progress</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from KidLanes. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, parentName, childName, listItems.String(), s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

%s just earned: %s

See their progress: %s

---
This is an automated email from KidLanes. Please do not reply.
`, parentName, childName, strings.Join(labels, ", "), s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if s.debug {
		log.Printf("[DEBUG] Calling SES SendEmail: to=%s, subject=%s", toEmail, subject)
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
