package model

import "errors"

var (
	// ErrInvalidInput is returned when an hour, day or holiday value cannot be encoded.
	ErrInvalidInput = errors.New("invalid input")
	// ErrModelUnavailable is returned when no trained model could be loaded.
	ErrModelUnavailable = errors.New("model not available")
	// ErrTrainingData is returned when training input is empty or malformed.
	ErrTrainingData = errors.New("invalid training data")
)
