package manifest

import "errors"

var ErrInvalidManifest = errors.New("manifest.invalid")
