// Package mongo connects the gateway to MongoDB.
//
// New applies pool and timeout settings from Config, pings the server and
// retries a few times before giving up; the caller decides whether a failure
// is fatal (the gateway exits). Healthcheck returns a ping function for
// readiness probes.
//
//	client, db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		// persistence unreachable
//	}
//	defer client.Disconnect(context.Background())
package mongo
