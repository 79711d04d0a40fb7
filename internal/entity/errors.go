package entity

import "errors"

var (
	// Image errors
	ErrImageNotFound    = errors.New("image not found")
	ErrInputNotFound    = errors.New("input file not found")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrVariantNotFound  = errors.New("variant not found")

	// Rule errors
	ErrUnknownMode      = errors.New("unknown background mode")
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 255")
	ErrUnknownPreset    = errors.New("unknown preset")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
