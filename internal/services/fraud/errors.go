package fraud

import "errors"

var ErrMissingReason = errors.New("flag reason is required")
