package service

import "errors"

var (
	ErrNotImage          = errors.New("file is not an image")
	ErrImageTooLarge     = errors.New("image dimensions exceed the limit")
	ErrUnknownSlot       = errors.New("unknown image slot")
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrCameraNotOpen     = errors.New("camera is not open")
	ErrMissingImages     = errors.New("person and clothing images are both required")
	ErrUnknownControl    = errors.New("unknown control")
	ErrInvalidValue      = errors.New("invalid control value")
	ErrNothingToExport   = errors.New("no try-on result to export")
	ErrShareUnsupported  = errors.New("sharing is not supported")
)
