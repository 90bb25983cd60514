// Package store keeps a history of solve runs.
//
// Every run the pipeline finishes is saved as a [Record]. The CLI keeps
// records in memory for the duration of a batch; the HTTP server persists
// them in MongoDB so that GET /v1/runs survives restarts.
//
//	st, err := store.NewMongoStore(ctx, store.MongoOptions{URI: uri})
//	if err != nil { ... }
//	defer st.Close(ctx)
//	recent, err := st.List(ctx, 20)
package store
