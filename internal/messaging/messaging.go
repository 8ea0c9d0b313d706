// Package messaging composes the confirmation invite: a prefilled message
// and a WhatsApp deep link. Nothing here sends anything; the operator
// dispatches the link through their own chat client.
package messaging

import (
	"fmt"
	"net/url"
	"strings"

	"escala/internal/models"
)

const (
	chatBaseURL = "https://wa.me"
	countryCode = "55"
)

// ComposeInviteText writes the wording for a guest invitation.
func ComposeInviteText(event models.Event, firstName, confirmationURL string) string {
	return fmt.Sprintf(
		"Hi %s! You are invited to %s on %s at %s. Please confirm your presence here: %s",
		firstName, event.Title, formatDate(event.Date), event.Time, confirmationURL)
}

// ComposeAssignmentText writes the wording for a serving-role convocation.
func ComposeAssignmentText(event models.Event, role, firstName, confirmationURL string) string {
	return fmt.Sprintf(
		"Hi %s! You are scheduled as %s for %s on %s at %s. Please confirm here: %s",
		firstName, role, event.Title, formatDate(event.Date), event.Time, confirmationURL)
}

// ComposeText selects the invite wording for the Guest sentinel role and
// the assignment wording for every other role.
func ComposeText(event models.Event, role, firstName, confirmationURL string) string {
	if role == models.RoleGuest {
		return ComposeInviteText(event, firstName, confirmationURL)
	}
	return ComposeAssignmentText(event, role, firstName, confirmationURL)
}

// NormalizePhone strips everything but digits and prefixes the country
// calling code unless the digit string already starts with it.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, countryCode) {
		return digits
	}
	return countryCode + digits
}

// BuildChatDeepLink produces the wa.me URL with the prefilled text.
func BuildChatDeepLink(phone, text string) string {
	return fmt.Sprintf("%s/%s?text=%s", chatBaseURL, NormalizePhone(phone), url.QueryEscape(text))
}

// FirstName extracts the leading name token for the greeting.
func FirstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func formatDate(iso string) string {
	// Stored dates are YYYY-MM-DD; the message shows DD/MM/YYYY.
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
