package core

// Logger is the app logger. args may contain an error, a user.User (the principal)
// or a map[string]interface{} of extra fields.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
