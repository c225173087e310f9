package alert

import "errors"

var errAlertTooShort = errors.New("alert: buffer shorter than 2 bytes")
