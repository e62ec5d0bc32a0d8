package domain

import "time"

// GroupMember ties a member email to its account.
type GroupMember struct {
	Email  string
	UserID string
}

// Group is a named set of accounts that share spending visibility.
// An account belongs to at most one group.
type Group struct {
	ID        string
	Name      string
	Members   []GroupMember
	CreatedAt time.Time
}

// MemberEmails returns the emails of all members in insertion order.
func (g *Group) MemberEmails() []string {
	emails := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		emails = append(emails, m.Email)
	}
	return emails
}

// HasMember reports whether the email belongs to the group.
func (g *Group) HasMember(email string) bool {
	for _, m := range g.Members {
		if m.Email == email {
			return true
		}
	}
	return false
}
