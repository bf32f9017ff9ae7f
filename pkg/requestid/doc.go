// Package requestid tags every request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID header from the client or
// generates a UUID, echoes it in the response and stores it in the request
// context. LoggerExtractor adds it to every record logged with that context:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
