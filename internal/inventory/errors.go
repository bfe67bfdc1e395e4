package inventory

import "errors"

var ErrInventory = errors.New("inventory failed")
