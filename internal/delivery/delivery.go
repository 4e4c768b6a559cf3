// Package delivery holds the transports that expose the account service.
package delivery

import "context"

// Delivery is a transport started by the application once the graph is built.
type Delivery interface {
	Serve(ctx context.Context) error
}
