package h2utils

import "errors"

var errShortPadding = errors.New("h2utils: padding length exceeds frame payload")
