// Package xydex embeds the xydex planar point index in a Go program.
//
// The client runs the same services as the HTTP API over an in-process
// memory engine, Redis 8 with the query engine, or Valkey with valkey-search.
//
//	client, _ := xydex.New(xydex.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	_, _ = client.Indexes().Ensure(ctx, "shapes",
//	    xydex.XYPoint("location", xydex.Stored()),
//	    xydex.Tag("language"),
//	)
//	_, _ = client.Documents("shapes").Put(ctx, "a", map[string]any{"location": "1,2"})
//	hits, _ := client.Search("shapes").Intersects(ctx, "location", "BBOX (0, 5, 5, 0)", 10)
package xydex
