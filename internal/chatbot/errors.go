package chatbot

import "errors"

// ErrEmptyQuestion indicates the caller supplied a blank question. It is a
// client error and is never retried.
var ErrEmptyQuestion = errors.New("question must not be empty")
