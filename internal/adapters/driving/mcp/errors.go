package mcp

import "errors"

// ErrMissingAnswerService indicates the answer service port was not
// provided.
var ErrMissingAnswerService = errors.New("answer service is required")
