// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"

	"ambient/internal/log"
)

// LoggingTransport implements the Transport interface by logging each
// message as JSON at debug level.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	log.Debugf("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the received data. Values that cannot be marshalled are logged
// with %+v instead.
func (lt *LoggingTransport) Send(data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Debugf("LOG_TRANSPORT: (%T) %+v", data, data)
		return nil
	}
	log.Debugf("LOG_TRANSPORT: %s", payload)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
