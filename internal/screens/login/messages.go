package login

import "github.com/abhisek/adaptest/internal/auth"

// loggedInMsg is sent when a login attempt completes.
type loggedInMsg struct {
	User *auth.User
	Err  error
}

// registeredMsg is sent when a registration attempt completes.
type registeredMsg struct {
	Email string
	Err   error
}
