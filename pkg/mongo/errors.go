package mongo

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("mongo.empty_connection_url")
	ErrInvalidConfig      = errors.New("mongo.invalid_config")
	ErrMongoNotReady      = errors.New("mongo.not_ready")
	ErrHealthcheckFailed  = errors.New("mongo.healthcheck_failed")
)
