package auth

// Session supplies the credential for the current caller. It is consulted
// on every call so a logout or token refresh takes effect immediately.
type Session interface {
	Token() Token
}

// StaticSession is a Session with a fixed token.
type StaticSession Token

// Token returns the fixed token.
func (s StaticSession) Token() Token {
	return Token(s)
}
