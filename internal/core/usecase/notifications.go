package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

func botReplyNotification(inq *domain.Inquiry, replyText string) domain.Notification {
	subject := fmt.Sprintf("Re: %s", inq.Subject)

	text := fmt.Sprintf(`Hello %s,

Thank you for contacting us. Here is an answer to your inquiry:

%s

If this does not fully answer your question, just reply to this email and a member of our team will follow up.

Best regards,
The Travel App Team`, inq.Name, replyText)

	html := fmt.Sprintf(`<html>
<body>
<p>Hello %s,</p>
<p>Thank you for contacting us. Here is an answer to your inquiry:</p>
<div style="background-color: #f8f9fa; padding: 15px; border-left: 4px solid #007bff;">
<p>%s</p>
</div>
<p>If this does not fully answer your question, just reply to this email and a member of our team will follow up.</p>
<p>Best regards,<br>The Travel App Team</p>
</body>
</html>`, inq.Name, strings.ReplaceAll(replyText, "\n", "<br>"))

	return domain.Notification{
		To:      []string{inq.Email},
		Subject: subject,
		Text:    text,
		HTML:    html,
	}
}

func escalationNotification(adminEmails []string, inq *domain.Inquiry, reasons []string) domain.Notification {
	subject := fmt.Sprintf("Inquiry needs review: %s", inq.Subject)

	reasonList := "No automated response could be generated."
	if len(reasons) > 0 {
		reasonList = "- " + strings.Join(reasons, "\n- ")
	}

	text := fmt.Sprintf(`A customer inquiry requires human attention.

From: %s <%s>
Subject: %s
Reasons:
%s

Message:
%s

Please respond to this inquiry as soon as possible.`, inq.Name, inq.Email, inq.Subject, reasonList, inq.Message)

	return domain.Notification{
		To:      adminEmails,
		Subject: subject,
		Text:    text,
	}
}
