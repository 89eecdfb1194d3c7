// Package masonclient provides the primary entry point for constructing a
// transport that talks to a Mason hypermedia API and implements the
// mason.Transport interface.
//
// It layers endpoint normalization and HTTP configuration on top of the
// representation model defined in the mason package. Most applications build
// a transport here and hand it to a navigator.Navigator or a ui.Session.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/nearby-client/pkg/mason"
//	  "github.com/fivetwenty-io/nearby-client/pkg/masonclient"
//	  "github.com/fivetwenty-io/nearby-client/pkg/navigator"
//	  "github.com/fivetwenty-io/nearby-client/pkg/view"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: just an API endpoint. "localhost:5000" becomes
//	  // "http://localhost:5000".
//	  transport, err := masonclient.NewWithEndpoint("localhost:5000")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with retries and request logging:
//	  transport, err = masonclient.New(&mason.Config{
//	    APIEndpoint: "https://nearby.example.com",
//	    RetryMax:    3,
//	    Debug:       true,
//	    Logger:      logger,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  nav := navigator.New(transport)
//	  tr := nav.Activate(ctx, mason.Control{Href: "/api/areas/"}, view.AreasList, nil)
//	  _ = tr
//	}
//
// # Retries
//
// Requests are attempted once unless Config.RetryMax is set. Error responses
// are never retried below status 500.
package masonclient
