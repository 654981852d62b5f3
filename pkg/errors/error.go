package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// WrongSideError represents an order whose side is not one of the recognized tokens.
	WrongSideError ErrorCode = "wrong_side"
	// WrongOrderIDError represents a missing, malformed or already resting order id.
	WrongOrderIDError ErrorCode = "wrong_order_id"
	// WrongPriceError represents a missing, non-numeric or non-positive limit price.
	WrongPriceError ErrorCode = "wrong_price"
	// WrongQuantityError represents a missing, non-numeric or non-positive quantity.
	WrongQuantityError ErrorCode = "wrong_quantity"
	// OrderNotFoundError represents a cancel request for an order the trader does not own.
	OrderNotFoundError ErrorCode = "order_not_found"

	// MalformedMessageError represents an envelope that could not be decoded.
	MalformedMessageError ErrorCode = "malformed_message"
	// UnknownMessageError represents an envelope with an unsupported message type.
	UnknownMessageError ErrorCode = "unknown_message"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisSubscribeError represents an error when subscribing to channels in Redis.
	RedisSubscribeError ErrorCode = "redis_subscribe_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
	// RedisWriteError represents an error when writing hash fields in Redis.
	RedisWriteError ErrorCode = "redis_write_error"
	// RedisReadError represents an error when reading hash fields from Redis.
	RedisReadError ErrorCode = "redis_read_error"

	// KafkaReadError represents an error when reading from the order topic.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaWriteError represents an error when writing to the report topic.
	KafkaWriteError ErrorCode = "kafka_write_error"
)
