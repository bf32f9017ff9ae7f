// Package redis connects to Redis and stores per-user locale preferences in it.
//
// Connect retries the initial connection using Config, which is populated from the
// environment:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// PreferenceStore keeps one locale per user id under a key prefix, with an optional TTL.
// It satisfies i18n.PreferenceStore:
//
//	store := redis.NewPreferenceStore(client, redis.WithKeyPrefix("locale:"), redis.WithTTL(30*24*time.Hour))
//	resolver := i18n.NewPreferenceResolver(route, store)
//
// Healthcheck returns a probe for the service health endpoint.
//
// Errors returned by Connect and Healthcheck wrap the driver error with errors.Join, so
// both the sentinel and the cause can be matched with errors.Is.
package redis
