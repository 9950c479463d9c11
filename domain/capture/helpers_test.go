package capture

import "time"

var timeZero = time.Time{}
