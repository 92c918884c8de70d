package hwinfo

import "errors"

// ErrUnsupported is returned by every collector on platforms without the
// /proc and statfs facilities these readings come from.
var ErrUnsupported = errors.New("hardware metrics are only supported on linux")
