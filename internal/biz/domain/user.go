package domain

import (
	"strconv"
	"strings"
)

// User is an end user writing to the bot from a private chat.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// DisplayName builds the label shown to operators: full name when present,
// falling back to the @username, then to the raw id.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "id" + strconv.FormatInt(u.ID, 10)
}
