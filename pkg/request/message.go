package request

import "fmt"

// Message is the JSON body of the monitoring server's error responses.
type Message struct {
	Message string `json:"Message"`
}

// NewMessage creates a new Message. The arguments are applied when there are any.
func NewMessage(message string, args ...any) *Message {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &Message{
		Message: message,
	}
}
