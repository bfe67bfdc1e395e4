package release

import "errors"

var ErrConfig = errors.New("invalid release configuration")
